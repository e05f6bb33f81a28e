// Package config implements the EngineConfig named in SPEC_FULL.md §4.7.4:
// a YAML-loaded bundle of engine options — loader search path, plugin
// search paths, default library names, the smart-trim flag, and the
// default locale — that Load reads from a file and Build turns into a
// configured engine.Engine. The dtl command does not read this config. Grounded on the Load/yaml.Unmarshal/defaults
// pattern in sambeau-basil's server/config/load.go, trimmed to this
// module's much smaller option set (no HTTP/auth/routing concerns).
package config

import (
	"fmt"
	"os"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/deicod/dtl/engine"
	"github.com/deicod/dtl/l10n"
	"github.com/deicod/dtl/loader"
	"github.com/deicod/dtl/plugin"
)

// EngineConfig holds every setting needed to construct a ready-to-use
// engine.Engine from a YAML file (SPEC_FULL.md §4.7.4).
type EngineConfig struct {
	// TemplateDirs is the ordered filesystem search path handed to a
	// loader.FileSystemLoader (or loader.WatchingLoader, if Watch is set).
	TemplateDirs []string `yaml:"template_dirs"`

	// Watch makes Build use a loader.WatchingLoader on TemplateDirs instead
	// of a plain loader.FileSystemLoader (see Build for what it wires up).
	Watch bool `yaml:"watch"`

	// PluginDirs is the search path for native `.so` and Starlark `.star`
	// library plugins (SPEC_FULL.md §4.7.3).
	PluginDirs []string `yaml:"plugin_dirs"`

	// Libraries holds the `libraries` list from the YAML file. Build does not
	// read it: no library is loaded or made a default because of it, and
	// EngineConfig only discovers plugin-based libraries from PluginDirs.
	Libraries []string `yaml:"libraries"`

	// SmartTrim toggles whitespace control lexing (SPEC_FULL.md §4.1/§4.7).
	SmartTrim bool `yaml:"smart_trim"`

	// Locale is a BCP 47 language tag (e.g. "en", "de-DE") selecting the
	// default l10n.CatalogLocalizer's locale (SPEC_FULL.md §4.7.2). Empty
	// means no localizer is installed.
	Locale string `yaml:"locale"`
}

// Defaults returns an EngineConfig with the engine's zero-value defaults:
// no template dirs, no plugin dirs, smart-trim off, no locale.
func Defaults() *EngineConfig {
	return &EngineConfig{}
}

// Load reads and parses path as YAML into an EngineConfig seeded with
// Defaults.
func Load(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Build constructs a ready-to-render engine.Engine from cfg: it wires up
// the configured loader (plain or watching), discovers and registers
// plugin libraries from PluginDirs, applies SmartTrim, and installs a
// default l10n.CatalogLocalizer if Locale is set.
//
// When Watch is set, the loader.WatchingLoader is added to the engine but
// not returned, and nothing drains its Changed() channel: the engine Build
// returns does not drop cached templates when a watched file changes.
func (c *EngineConfig) Build() (*engine.Engine, error) {
	e := engine.New()
	e.SetSmartTrim(c.SmartTrim)

	if len(c.TemplateDirs) > 0 {
		if c.Watch {
			wl, err := loader.NewWatchingLoader(c.TemplateDirs...)
			if err != nil {
				return nil, fmt.Errorf("config: starting watcher: %w", err)
			}
			e.AddLoader(wl)
		} else {
			e.AddLoader(loader.NewFileSystemLoader(c.TemplateDirs...))
		}
	}

	for name, lib := range plugin.DiscoverNative(c.PluginDirs...) {
		e.RegisterLibrary(name, lib)
	}
	for _, dir := range c.PluginDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !hasStarlarkExt(entry.Name()) {
				continue
			}
			path := dir + string(os.PathSeparator) + entry.Name()
			lib, err := plugin.LoadStarlarkLibrary(path)
			if err != nil {
				continue
			}
			e.RegisterLibrary(starlarkLibName(entry.Name()), lib)
		}
	}

	if c.Locale != "" {
		tag, err := language.Parse(c.Locale)
		if err != nil {
			return nil, fmt.Errorf("config: invalid locale %q: %w", c.Locale, err)
		}
		e.SetLocalizer(l10n.NewDefaultLocalizer(tag, l10n.LocaleFor(tag)))
	}

	return e, nil
}

func hasStarlarkExt(name string) bool {
	return len(name) > 5 && name[len(name)-5:] == ".star"
}

func starlarkLibName(name string) string {
	return name[:len(name)-5]
}
