package prefilter

import (
	"github.com/cloudflare/ahocorasick"
)

// Prefilter uses Aho-Corasick to rule out rules whose required keyword is
// missing from the input. It only answers "may this rule match"; callers keep
// iterating rules in their own order.
type Prefilter struct {
	matcher      *ahocorasick.Matcher
	keywords     []string         // keyword at each dictionary index
	keywordRules map[string][]int // keyword -> indices of rules needing it
	unfiltered   []int            // rules without keywords (always checked)
	size         int
}

// New creates a prefilter for len(keywords) rules. keywords[i] is the literal
// rule i requires; an empty string means the rule is always a candidate.
func New(keywords []string) *Prefilter {
	pf := &Prefilter{
		keywordRules: make(map[string][]int),
		unfiltered:   make([]int, 0),
		size:         len(keywords),
	}

	seen := make(map[string]bool)
	for i, keyword := range keywords {
		if keyword == "" {
			pf.unfiltered = append(pf.unfiltered, i)
			continue
		}
		if !seen[keyword] {
			seen[keyword] = true
			pf.keywords = append(pf.keywords, keyword)
		}
		pf.keywordRules[keyword] = append(pf.keywordRules[keyword], i)
	}

	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}

	return pf
}

// Len returns the number of rules the prefilter was built for.
func (pf *Prefilter) Len() int {
	return pf.size
}

// KeywordCount returns the number of distinct keywords in the automaton.
func (pf *Prefilter) KeywordCount() int {
	return len(pf.keywords)
}

// Candidates returns one flag per rule; false means the rule cannot match content.
// Safe for concurrent use.
func (pf *Prefilter) Candidates(content []byte) []bool {
	result := make([]bool, pf.size)
	for _, i := range pf.unfiltered {
		result[i] = true
	}

	if pf.matcher == nil {
		return result
	}

	for _, hit := range pf.matcher.MatchThreadSafe(content) {
		for _, i := range pf.keywordRules[pf.keywords[hit]] {
			result[i] = true
		}
	}

	return result
}
