// Package exclude evaluates workspace-relative paths against ordered,
// gitignore-style exclusion rules.
//
// Supported grammar (a subset of .gitignore):
//   - blank lines and lines starting with "#" are ignored
//   - "!" negates: a later negated rule re-includes a path excluded earlier
//   - "**/" matches at any depth
//   - "*" matches within one path segment and "?" matches exactly one character
//   - a trailing "/" restricts the rule to directories (and their contents)
//   - a trailing "/**" matches the contents of a directory, not the directory itself
//   - a pattern with a "/" at the start or in the middle is anchored to the
//     workspace root; any other pattern matches anywhere in the tree
//
// As with git, a file cannot be re-included once one of its parent
// directories has been excluded, because the walker never descends into it.
package exclude

import (
	"path"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// oneChar replaces "?" before compiling; the matcher treats "?" literally.
// The separator is spelled as an escape so the pattern gains no "/".
const oneChar = `[^\x2f]`

type rule struct {
	pattern      string // Original line, including any "!"
	negate       bool
	dirOnly      bool
	contentsOnly bool
	matcher      *ignore.GitIgnore
}

// matches applies one rule, ignoring negation
func (r rule) matches(rel string, isDir bool) bool {
	if r.contentsOnly {
		// matcher was compiled from the base "dir", which matches dir and
		// everything under it; rel is inside dir iff its parent is.
		parent := path.Dir(rel)
		if parent == "." {
			return false
		}
		return r.matcher.MatchesPath(parent)
	}
	if r.matcher.MatchesPath(rel) {
		return true
	}
	return r.dirOnly && isDir && r.matcher.MatchesPath(rel+"/")
}

// RuleSet is a compiled, immutable list of exclusion patterns.
// A nil *RuleSet excludes nothing.
type RuleSet struct {
	rules       []rule
	hasNegation bool
}

// Compile builds a RuleSet from pattern lines. Lines are copied, so later
// mutation of the caller's slice cannot affect the compiled set.
func Compile(patterns []string) *RuleSet {
	rs := &RuleSet{rules: make([]rule, 0, len(patterns))}

	for _, line := range patterns {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		r := rule{pattern: line}
		body := line
		if strings.HasPrefix(body, "!") {
			r.negate = true
			rs.hasNegation = true
			body = body[1:]
		}
		anchored := isAnchored(body)
		if strings.HasSuffix(body, "/**") && strings.Trim(body, "/*") != "" {
			r.contentsOnly = true
			body = strings.TrimSuffix(body, "/**")
		} else if strings.HasSuffix(body, "/") {
			r.dirOnly = true
		}
		if body == "" {
			continue
		}

		if anchored && !strings.HasPrefix(body, "/") {
			body = "/" + body
		}
		r.matcher = ignore.CompileIgnoreLines(strings.ReplaceAll(body, "?", oneChar))
		rs.rules = append(rs.rules, r)
	}

	return rs
}

// isAnchored reports whether body has a separator before its last
// character. A leading "**/" keeps the pattern matching at any depth.
func isAnchored(body string) bool {
	if strings.HasPrefix(body, "**/") {
		return false
	}
	return strings.Contains(strings.TrimSuffix(body, "/"), "/")
}

// Parse compiles a newline-delimited pattern block as stored in settings
func Parse(text string) *RuleSet {
	return Compile(ParseLines(text))
}

// ParseLines splits a newline-delimited pattern block into pattern lines,
// dropping blanks and comments.
func ParseLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Merge concatenates pattern lists in order, so rules of later lists can
// re-include paths excluded by earlier ones.
func Merge(lists ...[]string) []string {
	var merged []string
	for _, l := range lists {
		merged = append(merged, l...)
	}
	return merged
}

// Patterns returns the effective pattern lines in evaluation order
func (rs *RuleSet) Patterns() []string {
	if rs == nil {
		return nil
	}
	out := make([]string, 0, len(rs.rules))
	for _, r := range rs.rules {
		out = append(out, r.pattern)
	}
	return out
}

// Empty reports whether the set has no rules
func (rs *RuleSet) Empty() bool {
	return rs == nil || len(rs.rules) == 0
}

// Excludes reports whether rel, a normalized "/"-separated workspace-relative
// path, is excluded. Rules apply in order and the last matching rule wins.
// The root ("") is never excluded.
func (rs *RuleSet) Excludes(rel string, isDir bool) bool {
	if rs.Empty() || rel == "" {
		return false
	}
	excluded := false
	for _, r := range rs.rules {
		if r.matches(rel, isDir) {
			excluded = !r.negate
		}
	}
	return excluded
}

// ExcludesContents reports whether every possible child of the directory rel
// is excluded, so the walker can skip reading it. Only "dir/**" rules
// qualify. Always false when the set holds negations, since a negation could
// re-include some child.
func (rs *RuleSet) ExcludesContents(rel string) bool {
	if rs.Empty() || rs.hasNegation || rel == "" {
		return false
	}
	for _, r := range rs.rules {
		if r.contentsOnly && r.matcher.MatchesPath(rel) {
			return true
		}
	}
	return false
}
