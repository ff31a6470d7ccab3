package matcher

import (
	"time"

	"github.com/praetorian-inc/uaparser/pkg/prefilter"
	"github.com/praetorian-inc/uaparser/pkg/types"
)

// Options configures catalog compilation.
type Options struct {
	// Prefilter enables the Aho-Corasick keyword prefilter. It skips rules
	// whose required literal is absent and never changes results.
	Prefilter bool

	// MatchTimeout bounds a single rule evaluation; 0 keeps the regexp2 default.
	// A rule that times out is treated as not matching.
	MatchTimeout time.Duration
}

// DefaultOptions returns the default options for catalogs.
func DefaultOptions() Options {
	return Options{
		Prefilter: true,
	}
}

// Catalog is an ordered list of rules of one family.
// The first rule that matches wins; rules are never reordered or scored.
type Catalog[T any] struct {
	kind     types.Kind
	rules    []TypedRule[T]
	fallback func() T
	filter   *prefilter.Prefilter
}

// source is the family-independent view of a descriptor.
type source struct {
	pattern    string
	templates  []*string
	ignoreCase bool
}

func newCatalog[T any](kind types.Kind, sources []source, build func([]*string) T, fallback func() T, opts Options) (*Catalog[T], error) {
	c := &Catalog[T]{
		kind:     kind,
		rules:    make([]TypedRule[T], 0, len(sources)),
		fallback: fallback,
	}

	for i, src := range sources {
		r, err := compileRule(kind, i, src.pattern, src.templates, src.ignoreCase, opts.MatchTimeout)
		if err != nil {
			return nil, err
		}
		c.rules = append(c.rules, TypedRule[T]{Rule: r, build: build})
	}

	if opts.Prefilter && len(c.rules) > 0 {
		keywords := make([]string, len(c.rules))
		for i, r := range c.rules {
			keywords[i] = r.keyword
		}
		c.filter = prefilter.New(keywords)
	}

	return c, nil
}

// NewUserAgentCatalog compiles user agent descriptors in order.
// The first invalid pattern aborts construction with a *PatternError.
func NewUserAgentCatalog(descs []types.UserAgentDescriptor, opts Options) (*Catalog[types.UserAgent], error) {
	sources := make([]source, len(descs))
	for i, d := range descs {
		sources[i] = source{pattern: d.Regex, templates: d.Templates()}
	}
	return newCatalog(types.KindUserAgent, sources, userAgentFromValues, types.DefaultUserAgent, opts)
}

// NewOSCatalog compiles os descriptors in order.
func NewOSCatalog(descs []types.OSDescriptor, opts Options) (*Catalog[types.OS], error) {
	sources := make([]source, len(descs))
	for i, d := range descs {
		sources[i] = source{pattern: d.Regex, templates: d.Templates()}
	}
	return newCatalog(types.KindOS, sources, osFromValues, types.DefaultOS, opts)
}

// NewDeviceCatalog compiles device descriptors in order, honoring regex_flag.
func NewDeviceCatalog(descs []types.DeviceDescriptor, opts Options) (*Catalog[types.Device], error) {
	sources := make([]source, len(descs))
	for i, d := range descs {
		sources[i] = source{pattern: d.Regex, templates: d.Templates(), ignoreCase: ignoresCase(d.RegexFlag)}
	}
	return newCatalog(types.KindDevice, sources, deviceFromValues, types.DefaultDevice, opts)
}

// Resolve returns the record of the first matching rule, or the family default.
func (c *Catalog[T]) Resolve(text string) T {
	rec, _, ok := c.Lookup(text)
	if !ok {
		return c.fallback()
	}
	return rec
}

// Lookup is Resolve that also reports which rule matched.
// ok is false when the family default would be returned.
func (c *Catalog[T]) Lookup(text string) (rec T, index int, ok bool) {
	var candidates []bool
	if c.filter != nil {
		candidates = c.filter.Candidates([]byte(text))
	}

	for i, r := range c.rules {
		if candidates != nil && !candidates[i] {
			continue
		}
		if got, matched := r.MatchAgainst(text); matched {
			return got, i, true
		}
	}

	return rec, -1, false
}

// Kind returns the family of the catalog.
func (c *Catalog[T]) Kind() types.Kind { return c.kind }

// Len returns the number of rules.
func (c *Catalog[T]) Len() int { return len(c.rules) }

// Rules returns the compiled rules in catalog order.
func (c *Catalog[T]) Rules() []*Rule {
	out := make([]*Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.Rule
	}
	return out
}

// Prefiltered reports whether the keyword prefilter is active.
func (c *Catalog[T]) Prefiltered() bool { return c.filter != nil }
