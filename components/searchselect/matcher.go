package searchselect

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Matcher filters options for a search term in LocalSearch mode.
type Matcher interface {
	Match(term string, options []Option) []Option
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(term string, options []Option) []Option

// Match implements Matcher.
func (fn MatcherFunc) Match(term string, options []Option) []Option {
	return fn(term, options)
}

// SubstringMatcher keeps options whose label contains the term, ignoring
// case. Order is preserved.
type SubstringMatcher struct{}

// Match implements Matcher.
func (SubstringMatcher) Match(term string, options []Option) []Option {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return options
	}
	out := make([]Option, 0, len(options))
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt.Label), term) {
			out = append(out, opt)
		}
	}
	return out
}

// FuzzyMatcher ranks options by fuzzy label match, best first.
type FuzzyMatcher struct{}

// Match implements Matcher.
func (FuzzyMatcher) Match(term string, options []Option) []Option {
	term = strings.TrimSpace(term)
	if term == "" {
		return options
	}
	matches := fuzzy.FindFrom(term, optionSource(options))
	out := make([]Option, len(matches))
	for i, m := range matches {
		out[i] = options[m.Index]
	}
	return out
}

type optionSource []Option

func (s optionSource) String(i int) string { return s[i].Label }
func (s optionSource) Len() int            { return len(s) }
