package runtime

// Compiler is the render-agnostic compile-time handle a Loader uses to turn
// raw source text into a Renderable template (the "load(name, engine)"
// contract of SPEC_FULL.md §6). It is declared here rather than in the
// engine package for the same cycle-avoidance reason as TemplateLoader:
// the loader package's concrete loaders structurally satisfy Loader without
// ever importing the engine package that implements Compiler.
type Compiler interface {
	Compile(name, src string) (Renderable, error)
}

// Loader is the concrete template-source strategy object named in
// SPEC_FULL.md §6/§4.7.1: an Engine holds an ordered list of Loaders and
// asks each, in turn, whether it can produce a given template name.
type Loader interface {
	// CanLoad reports whether this loader can produce a template for name.
	CanLoad(name string) bool

	// Load reads name's source and compiles it via c, returning the
	// resulting Renderable template.
	Load(name string, c Compiler) (Renderable, error)

	// MediaURI resolves name to a (base directory, relative path) pair for
	// constructing a media/asset URL alongside the template.
	MediaURI(name string) (dir string, rel string)
}
