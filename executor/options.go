package executor

import (
	"path/filepath"
	"strings"

	"github.com/slivka-go/taskqueue/internal/shellwords"
)

// CommandOption is one declared option of a service's command line: a
// name drawn from the service's option schema, a parameter template, and
// an optional default. The template's "${value}" placeholder is
// replaced with the user-supplied value (or the default, if the user
// supplied none); if neither a value nor a default is available the
// option contributes nothing to the assembled command line. This
// placeholder syntax is an implementer's choice -- spec.md leaves the
// exact template syntax unspecified (see DESIGN.md).
type CommandOption struct {
	Name    string
	Param   string
	Default string
}

const valuePlaceholder = "${value}"

// render returns the substituted template and whether the option has a
// value at all (user-supplied or default).
func (o CommandOption) render(value string) (string, bool) {
	if value == "" {
		value = o.Default
	}
	if value == "" {
		return "", false
	}
	return strings.ReplaceAll(o.Param, valuePlaceholder, value), true
}

// assembleOptions substitutes and tokenizes every declared option in
// declaration order, producing the final, deterministic argv tail.
// Values is keyed by option name; options absent from values fall back
// to their configured default.
func assembleOptions(options []CommandOption, values map[string]string) ([]string, error) {
	var tokens []string
	for _, opt := range options {
		rendered, ok := opt.render(values[opt.Name])
		if !ok {
			continue
		}
		parts, err := shellwords.Split(rendered)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, parts...)
	}
	return tokens, nil
}

// FileResult describes one declared output of a service's command,
// either a literal path or a glob pattern, both relative to the job's
// working directory.
type FileResult interface {
	// Paths expands this declared result against cwd, returning absolute
	// paths. A literal path is returned whether or not it currently
	// exists (the caller may be asking before the job finished); a
	// pattern is expanded with filepath.Glob and only returns matches
	// that currently exist.
	Paths(cwd string) ([]string, error)
}

// LiteralFileResult is a single fixed, relative path.
type LiteralFileResult struct {
	Path string
}

func (f LiteralFileResult) Paths(cwd string) ([]string, error) {
	return []string{filepath.Join(cwd, f.Path)}, nil
}

// PatternFileResult is a glob pattern, relative to cwd.
type PatternFileResult struct {
	Pattern string
}

func (f PatternFileResult) Paths(cwd string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(cwd, f.Pattern))
	if err != nil {
		return nil, err
	}
	return matches, nil
}
