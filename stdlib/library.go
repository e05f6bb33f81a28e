package stdlib

import "github.com/deicod/dtl/nodes"

// StandardLibrary returns the default tag and filter library every Engine
// loads before parsing begins (SPEC_FULL.md §4.2 "Default libraries", §4.5,
// §4.6.1). It is itself just a static implementation of the Library
// contract named in SPEC_FULL.md §6/§4.7.3 — the same shape a native
// plugin or Starlark-scripted library produces.
func StandardLibrary() *nodes.Library {
	lib := nodes.NewLibrary()

	lib.AddTag("for", forTag)
	lib.AddTag("if", ifTag)
	lib.AddTag("firstof", firstofTag)
	lib.AddTag("autoescape", autoescapeTag)
	lib.AddTag("comment", commentTag)
	lib.AddTag("load", loadTag)
	lib.AddTag("include", includeTag)
	lib.AddTag("extends", extendsTag)
	lib.AddTag("block", blockTag)
	lib.AddTag("regroup", regroupTag)
	lib.AddTag("now", nowTag)
	lib.AddTag("range", rangeTag)
	lib.AddTag("i18nc", i18ncTag)
	lib.AddTag("i18nc_var", i18ncVarTag)
	lib.AddTag("i18np", i18npTag)
	lib.AddTag("i18np_var", i18npVarTag)
	lib.AddTag("l10n_filesize", l10nFileSizeTag)
	lib.AddTag("l10n_filesize_var", l10nFileSizeVarTag)

	for name, f := range StandardFilters() {
		lib.AddFilter(name, f)
	}

	return lib
}
