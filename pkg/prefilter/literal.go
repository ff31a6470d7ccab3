package prefilter

import "regexp/syntax"

// minKeywordLen keeps very short literals out of the automaton; they hit on
// nearly every input and only add matching work.
const minKeywordLen = 3

const maxDepth = 100

// RequiredLiteral returns the longest case-sensitive literal that every match
// of pattern must contain, or "" when none can be proven.
//
// Patterns that the RE2 parser rejects (lookarounds, backreferences and other
// regexp2-only syntax) and case-insensitive patterns yield "", so such rules
// are always evaluated.
func RequiredLiteral(pattern string, ignoreCase bool) string {
	if ignoreCase {
		return ""
	}

	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return ""
	}

	best := ""
	for _, lit := range requiredLiterals(re, 0) {
		if len(lit) > len(best) {
			best = lit
		}
	}
	if len(best) < minKeywordLen {
		return ""
	}
	return best
}

// requiredLiterals collects literals that must appear in any match of re.
func requiredLiterals(re *syntax.Regexp, depth int) []string {
	if depth > maxDepth || re.Flags&syntax.FoldCase != 0 {
		return nil
	}

	switch re.Op {
	case syntax.OpLiteral:
		return []string{string(re.Rune)}

	case syntax.OpCapture, syntax.OpPlus:
		return requiredLiterals(re.Sub[0], depth+1)

	case syntax.OpRepeat:
		if re.Min >= 1 {
			return requiredLiterals(re.Sub[0], depth+1)
		}
		return nil

	case syntax.OpConcat:
		var out []string
		for _, sub := range re.Sub {
			out = append(out, requiredLiterals(sub, depth+1)...)
		}
		return out

	default:
		// Alternations, optional parts and classes guarantee nothing.
		return nil
	}
}
