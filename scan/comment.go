// Package scan recognizes ::tyranno:: directives in the comments of
// arbitrary host file types.
package scan

import (
	"path/filepath"
)

// A TokenPair is the comment syntax of one file type. End is empty for
// single-line comment styles.
type TokenPair struct {
	Start string
	End   string
}

func (t TokenPair) IsMultiline() bool {
	return t.End != ""
}

var commentTokens = map[string]TokenPair{}

func init() {
	pound := []string{
		".toml", ".yaml", ".yml", ".sh", ".py", ".cfg",
		"CITATION.cff", "Dockerfile", "justfile", "Makefile", "NOTICE",
		".gitignore", ".dockerignore", ".helmignore", ".prettierignore",
		".editorconfig",
	}
	slash := []string{".go", ".rs", ".java", ".scala", ".kt", ".c", ".cpp", ".js", ".ts"}
	semicolon := []string{".ini", ".antlr"}
	htmlLike := []string{".md", ".html"}
	cssLike := []string{".css", ".less", ".sass", ".scss"}
	for _, set := range []struct {
		keys []string
		pair TokenPair
	}{
		{pound, TokenPair{Start: "#"}},
		{slash, TokenPair{Start: "//"}},
		{semicolon, TokenPair{Start: ";"}},
		{htmlLike, TokenPair{Start: "<!--", End: "-->"}},
		{cssLike, TokenPair{Start: "/*", End: "*/"}},
	} {
		for _, k := range set.keys {
			commentTokens[k] = set.pair
		}
	}
}

// Tokens returns the comment pair for a path, keyed by suffix or, for
// files like Dockerfile, by basename.
func Tokens(path string) (TokenPair, bool) {
	base := filepath.Base(path)
	if suffix := filepath.Ext(base); suffix != "" {
		if pair, ok := commentTokens[suffix]; ok {
			return pair, true
		}
	}
	// Basename entries cover files like Dockerfile, justfile, and
	// CITATION.cff; dotfiles like .gitignore are their own suffix.
	pair, ok := commentTokens[base]
	return pair, ok
}
