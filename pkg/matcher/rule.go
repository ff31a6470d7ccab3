package matcher

import (
	"time"

	"github.com/dlclark/regexp2"
	"github.com/praetorian-inc/uaparser/pkg/prefilter"
	"github.com/praetorian-inc/uaparser/pkg/types"
)

// Matcher is implemented by every typed rule: one pattern, one record family.
type Matcher[T any] interface {
	// MatchAgainst returns the record built from the leftmost match in text,
	// or false when the pattern does not match.
	MatchAgainst(text string) (T, bool)
}

// Rule is a compiled pattern plus per-field replacement templates.
// Immutable after compilation and safe for concurrent use.
type Rule struct {
	kind      types.Kind
	index     int
	pattern   string
	re        *regexp2.Regexp
	layout    Layout
	templates []*string
	keyword   string
}

// compileRule compiles a descriptor pattern.
// RE2-compatible mode is tried first; patterns relying on Perl/.NET features
// (lookarounds, possessive groups, (?x)) fall back to the default syntax.
func compileRule(kind types.Kind, index int, pattern string, templates []*string, ignoreCase bool, timeout time.Duration) (*Rule, error) {
	var flags regexp2.RegexOptions
	if ignoreCase {
		flags |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(pattern, flags|regexp2.RE2)
	if err != nil {
		re, err = regexp2.Compile(pattern, flags)
		if err != nil {
			return nil, &PatternError{Kind: kind, Index: index, Pattern: pattern, Err: err}
		}
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}

	return &Rule{
		kind:      kind,
		index:     index,
		pattern:   pattern,
		re:        re,
		layout:    LayoutFor(kind),
		templates: templates,
		keyword:   prefilter.RequiredLiteral(pattern, ignoreCase),
	}, nil
}

// Kind returns the record family this rule produces.
func (r *Rule) Kind() types.Kind { return r.kind }

// Index returns the rule's position in its source list.
func (r *Rule) Index() int { return r.index }

// Pattern returns the uncompiled regex source.
func (r *Rule) Pattern() string { return r.pattern }

// Keyword returns the literal used for prefiltering, or "".
func (r *Rule) Keyword() string { return r.keyword }

// Captures runs the pattern against text and returns the capture groups of the
// leftmost match. A match timeout counts as no match.
func (r *Rule) Captures(text string) (Captures, bool) {
	m, err := r.re.FindStringMatch(text)
	if err != nil || m == nil {
		return nil, false
	}
	return capturesFromMatch(m), true
}

// Values applies the field extraction policy to the leftmost match.
// The returned slice follows the rule's layout.
func (r *Rule) Values(text string) ([]*string, bool) {
	caps, ok := r.Captures(text)
	if !ok {
		return nil, false
	}
	return r.layout.Extract(r.templates, caps), true
}

// TypedRule pairs a Rule with the constructor of its record type.
type TypedRule[T any] struct {
	*Rule
	build func([]*string) T
}

// MatchAgainst implements Matcher.
func (r TypedRule[T]) MatchAgainst(text string) (T, bool) {
	values, ok := r.Values(text)
	if !ok {
		var zero T
		return zero, false
	}
	return r.build(values), true
}

type (
	UserAgentRule = TypedRule[types.UserAgent]
	OSRule        = TypedRule[types.OS]
	DeviceRule    = TypedRule[types.Device]
)

var (
	_ Matcher[types.UserAgent] = UserAgentRule{}
	_ Matcher[types.OS]        = OSRule{}
	_ Matcher[types.Device]    = DeviceRule{}
)

// NewUserAgentRule compiles a single user agent descriptor.
func NewUserAgentRule(d types.UserAgentDescriptor) (UserAgentRule, error) {
	r, err := compileRule(types.KindUserAgent, 0, d.Regex, d.Templates(), false, 0)
	if err != nil {
		return UserAgentRule{}, err
	}
	return UserAgentRule{Rule: r, build: userAgentFromValues}, nil
}

// NewOSRule compiles a single os descriptor.
func NewOSRule(d types.OSDescriptor) (OSRule, error) {
	r, err := compileRule(types.KindOS, 0, d.Regex, d.Templates(), false, 0)
	if err != nil {
		return OSRule{}, err
	}
	return OSRule{Rule: r, build: osFromValues}, nil
}

// NewDeviceRule compiles a single device descriptor.
func NewDeviceRule(d types.DeviceDescriptor) (DeviceRule, error) {
	r, err := compileRule(types.KindDevice, 0, d.Regex, d.Templates(), ignoresCase(d.RegexFlag), 0)
	if err != nil {
		return DeviceRule{}, err
	}
	return DeviceRule{Rule: r, build: deviceFromValues}, nil
}

func ignoresCase(flag string) bool {
	return flag == "i"
}
