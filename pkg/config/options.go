// Package config is the public surface of the configuration engine: a
// typed, queryable Store built by parsing Hyprlang-family text, plus
// handler and special-category registration. Internally it composes
// internal/grammar (tokenization), internal/varsub (variable expansion),
// internal/expr (arithmetic), internal/ingest (source inclusion), and
// pkg/value (typed coercion).
package config

// Options controls Store construction and parsing behavior (spec §3
// "ConfigOptions").
type Options struct {
	// ThrowAllErrors collects every top-level parse failure into a
	// herr.MultiError instead of aborting at the first one.
	ThrowAllErrors bool

	// AllowDynamicParsing permits calling Parse/ParseFile more than once on
	// the same Store. Direct Set/SetVariable calls are always permitted
	// regardless of this option — see DESIGN.md "Open Question decisions".
	AllowDynamicParsing bool

	// BaseDir is the directory `source = <path>` directives resolve
	// relative paths against, for the whole parse including included files.
	// When empty, Parse resolves against "." and ParseFile against the
	// parsed file's directory, and each included file's relative sources
	// resolve against that file's own directory.
	BaseDir string
}

func (o Options) baseDir() string {
	if o.BaseDir == "" {
		return "."
	}
	return o.BaseDir
}
