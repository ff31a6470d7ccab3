package matcher

import (
	"errors"
	"sync"
	"testing"

	"github.com/praetorian-inc/uaparser/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUserAgentDescriptors = []types.UserAgentDescriptor{
	{Regex: `(Chrome)/(\d+)\.(\d+)\.(\d+)\.(\d+) Mobile`, FamilyReplacement: ptr("Chrome Mobile")},
	{Regex: `(Chrome)/(\d+)\.(\d+)\.(\d+)\.(\d+)`},
	{Regex: `(Firefox)/(\d+)\.(\d+)`},
	{Regex: `(\w+)/(\d+)`, FamilyReplacement: ptr("Generic $1")},
}

func TestCatalog_FirstMatchWins(t *testing.T) {
	c, err := NewUserAgentCatalog(testUserAgentDescriptors, DefaultOptions())
	require.NoError(t, err)

	ua := c.Resolve(galaxyNexusUA)
	assert.Equal(t, "Chrome Mobile", ua.Family)
	assert.Equal(t, "58", *ua.PatchMinor)

	desktop := "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.109 Safari/537.36"
	ua = c.Resolve(desktop)
	assert.Equal(t, "Chrome", ua.Family)
	assert.Equal(t, "120", *ua.Major)
}

func TestCatalog_OrderNotSpecificity(t *testing.T) {
	// A catch-all placed first shadows every later, more specific rule.
	descs := []types.UserAgentDescriptor{
		{Regex: `(\w+)/(\d+)`},
		{Regex: `(Chrome)/(\d+)\.(\d+)\.(\d+)\.(\d+)`},
	}
	c, err := NewUserAgentCatalog(descs, DefaultOptions())
	require.NoError(t, err)

	rec, index, ok := c.Lookup(galaxyNexusUA)
	require.True(t, ok)
	assert.Equal(t, 0, index)
	assert.Equal(t, "Mozilla", rec.Family)
	assert.Equal(t, "5", *rec.Major)
}

func TestCatalog_DefaultFallback(t *testing.T) {
	c, err := NewUserAgentCatalog(testUserAgentDescriptors[:3], DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, types.DefaultUserAgent(), c.Resolve("curl 8.4.0"))
	assert.Equal(t, types.DefaultUserAgent(), c.Resolve(""))

	_, index, ok := c.Lookup("curl 8.4.0")
	assert.False(t, ok)
	assert.Equal(t, -1, index)
}

func TestCatalog_EmptyCatalog(t *testing.T) {
	c, err := NewDeviceCatalog(nil, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Prefiltered())
	assert.Equal(t, types.DefaultDevice(), c.Resolve(galaxyNexusUA))
}

func TestCatalog_PrefilterDoesNotChangeResults(t *testing.T) {
	with, err := NewUserAgentCatalog(testUserAgentDescriptors, Options{Prefilter: true})
	require.NoError(t, err)
	without, err := NewUserAgentCatalog(testUserAgentDescriptors, Options{Prefilter: false})
	require.NoError(t, err)

	assert.True(t, with.Prefiltered())
	assert.False(t, without.Prefiltered())

	inputs := []string{
		galaxyNexusUA,
		"Mozilla/5.0 (Windows NT 10.0; rv:115.0) Gecko/20100101 Firefox/115.0",
		"Mozilla/5.0 (X11; Linux x86_64) Chrome/120.0.6099.109 Safari/537.36",
		"curl/8.4.0",
		"no version here",
		"",
	}
	for _, in := range inputs {
		assert.Equal(t, without.Resolve(in), with.Resolve(in), "input %q", in)
	}
}

func TestCatalog_Deterministic(t *testing.T) {
	a, err := NewUserAgentCatalog(testUserAgentDescriptors, DefaultOptions())
	require.NoError(t, err)
	b, err := NewUserAgentCatalog(testUserAgentDescriptors, DefaultOptions())
	require.NoError(t, err)

	first := a.Resolve(galaxyNexusUA)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, a.Resolve(galaxyNexusUA))
		assert.Equal(t, first, b.Resolve(galaxyNexusUA))
	}
}

func TestCatalog_ConcurrentResolve(t *testing.T) {
	c, err := NewUserAgentCatalog(testUserAgentDescriptors, DefaultOptions())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ua := c.Resolve(galaxyNexusUA)
				assert.Equal(t, "Chrome Mobile", ua.Family)
			}
		}()
	}
	wg.Wait()
}

func TestCatalog_InvalidPatternStopsAtFirst(t *testing.T) {
	descs := []types.OSDescriptor{
		{Regex: `(Android) (\d+)`},
		{Regex: `(iOS [`},
		{Regex: `(Windows (`},
	}

	c, err := NewOSCatalog(descs, DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, c)
	assert.True(t, errors.Is(err, ErrInvalidPattern))

	var perr *PatternError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, types.KindOS, perr.Kind)
	assert.Equal(t, 1, perr.Index)
	assert.Equal(t, `(iOS [`, perr.Pattern)
}

func TestCatalog_RulesAndKind(t *testing.T) {
	c, err := NewDeviceCatalog([]types.DeviceDescriptor{
		{Regex: `(iPhone)`, BrandReplacement: ptr("Apple")},
		{Regex: `(iPad)`, RegexFlag: "i"},
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, types.KindDevice, c.Kind())
	assert.Equal(t, 2, c.Len())

	rules := c.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, `(iPhone)`, rules[0].Pattern())
	assert.Equal(t, 1, rules[1].Index())
	assert.Equal(t, "iPhone", rules[0].Keyword())
	assert.Equal(t, "", rules[1].Keyword())
}

func TestCatalog_DeviceRecords(t *testing.T) {
	c, err := NewDeviceCatalog([]types.DeviceDescriptor{
		{Regex: `; *(Galaxy Nexus) Build`, DeviceReplacement: ptr("Samsung $1"), BrandReplacement: ptr("Samsung"), ModelReplacement: ptr("$1")},
	}, DefaultOptions())
	require.NoError(t, err)

	d := c.Resolve(galaxyNexusUA)
	assert.Equal(t, types.Device{Family: "Samsung Galaxy Nexus", Brand: ptr("Samsung"), Model: ptr("Galaxy Nexus")}, d)

	assert.Equal(t, types.DefaultDevice(), c.Resolve("Mozilla/5.0 (Windows NT 10.0)"))
}
