package matcher

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Capture is one capture group of a successful match.
// Matched is false when the group did not participate in the match.
type Capture struct {
	Value   string
	Matched bool
}

// Captures holds every group of a match; index 0 is the whole match.
type Captures []Capture

// Group returns the value of group i and whether it participated.
// Out-of-range indices report as not matched.
func (c Captures) Group(i int) (string, bool) {
	if i < 0 || i >= len(c) {
		return "", false
	}
	return c[i].Value, c[i].Matched
}

// capturesFromMatch extracts positional capture groups from a regexp2 match.
func capturesFromMatch(match *regexp2.Match) Captures {
	groups := match.Groups()
	caps := make(Captures, len(groups))
	for i, group := range groups {
		if len(group.Captures) > 0 {
			caps[i] = Capture{Value: group.String(), Matched: true}
		}
	}
	return caps
}

// Expand substitutes positional placeholders in template with capture values.
//
// A placeholder is '$' followed by a single digit 1-9 naming a group the match
// actually has. Groups that did not participate expand to "". Tokens naming
// groups beyond the match (and "$0") are copied through untouched, so "$12"
// reads as group 1 followed by a literal "2". Inserted values are never
// rescanned.
func Expand(template string, caps Captures) string {
	if !strings.Contains(template, "$") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c == '$' && i+1 < len(template) {
			d := template[i+1]
			if d >= '1' && d <= '9' {
				idx := int(d - '0')
				if idx < len(caps) {
					b.WriteString(caps[idx].Value)
					i++
					continue
				}
			}
		}
		b.WriteByte(c)
	}

	return b.String()
}
