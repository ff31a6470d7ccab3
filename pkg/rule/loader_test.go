package rule

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/praetorian-inc/uaparser/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AllSections(t *testing.T) {
	defs, err := NewLoader().LoadFile("testdata/regexes.yaml")
	require.NoError(t, err)

	require.Len(t, defs.UserAgents, 3)
	require.Len(t, defs.OS, 2)
	require.Len(t, defs.Devices, 2)

	assert.Equal(t, `(Chrome)/(\d+)\.(\d+)\.(\d+)\.(\d+) Mobile`, defs.UserAgents[0].Regex)
	require.NotNil(t, defs.UserAgents[0].FamilyReplacement)
	assert.Equal(t, "Chrome Mobile", *defs.UserAgents[0].FamilyReplacement)

	assert.Equal(t, "Windows", *defs.OS[1].OSReplacement)
	assert.Equal(t, "10", *defs.OS[1].OSV1Replacement)
	assert.Nil(t, defs.OS[1].OSV2Replacement)

	assert.Equal(t, "Samsung $1", *defs.Devices[0].DeviceReplacement)
	assert.Equal(t, "$1", *defs.Devices[0].ModelReplacement)
	assert.Equal(t, "i", defs.Devices[1].RegexFlag)
	assert.Nil(t, defs.Devices[1].DeviceReplacement)
}

func TestLoad_PreservesFileOrder(t *testing.T) {
	data := `user_agent_parsers:
  - regex: 'c'
  - regex: 'a'
  - regex: 'b'
`
	defs, err := NewLoader().Load([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a", "b"}, defs.Patterns(types.KindUserAgent))
}

func TestLoad_EmptyReplacementIsPresent(t *testing.T) {
	defs, err := NewLoader().LoadFile("testdata/regexes.yaml")
	require.NoError(t, err)

	firefox := defs.UserAgents[2]
	assert.Nil(t, firefox.V1Replacement)
	require.NotNil(t, firefox.V2Replacement)
	assert.Equal(t, "", *firefox.V2Replacement)
}

func TestLoad_MissingSections(t *testing.T) {
	defs, err := NewLoader().Load([]byte("os_parsers:\n  - regex: '(Linux)'\n"))
	require.NoError(t, err)

	assert.Empty(t, defs.UserAgents)
	assert.Len(t, defs.OS, 1)
	assert.Empty(t, defs.Devices)
}

func TestLoad_EmptyDocument(t *testing.T) {
	defs, err := NewLoader().Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, defs.Count(types.KindUserAgent))
	assert.Equal(t, 0, defs.Count(types.KindOS))
	assert.Equal(t, 0, defs.Count(types.KindDevice))
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := NewLoader().Load([]byte(`user_agent_parsers: [[[`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDescriptor))
}

func TestLoad_MissingRegex(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "user agent without regex",
			yaml: "user_agent_parsers:\n  - regex: '(a)'\n  - family_replacement: 'X'\n",
			want: "user_agent parser 1",
		},
		{
			name: "os with empty regex",
			yaml: "os_parsers:\n  - regex: ''\n",
			want: "os parser 0",
		},
		{
			name: "device without regex",
			yaml: "device_parsers:\n  - device_replacement: 'Spider'\n",
			want: "device parser 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Load([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDescriptor))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_UnknownRegexFlag(t *testing.T) {
	_, err := NewLoader().Load([]byte("device_parsers:\n  - regex: '(x)'\n    regex_flag: 'm'\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDescriptor))
	assert.Contains(t, err.Error(), `"m"`)
}

func TestLoadReader(t *testing.T) {
	defs, err := NewLoader().LoadReader(strings.NewReader("device_parsers:\n  - regex: '(iPhone)'\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"(iPhone)"}, defs.Patterns(types.KindDevice))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestLoadReader_ReadError(t *testing.T) {
	_, err := NewLoader().LoadReader(failingReader{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := NewLoader().LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFile_MalformedIncludesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("os_parsers:\n  - os_replacement: 'X'\n"), 0o644))

	_, err := NewLoader().LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDescriptor))
	assert.Contains(t, err.Error(), path)
}

func TestLoadBuiltin(t *testing.T) {
	defs, err := NewLoader().LoadBuiltin()
	require.NoError(t, err)

	assert.NotZero(t, defs.Count(types.KindUserAgent))
	assert.NotZero(t, defs.Count(types.KindOS))
	assert.NotZero(t, defs.Count(types.KindDevice))

	for _, d := range defs.Devices {
		if d.RegexFlag != "" {
			assert.Equal(t, "i", d.RegexFlag)
		}
	}
}

func TestLoadBuiltin_CustomFS(t *testing.T) {
	fsys := fstest.MapFS{
		"regexes.yaml": &fstest.MapFile{Data: []byte("user_agent_parsers:\n  - regex: '(Lynx)/(\\d+)'\n")},
	}

	defs, err := NewLoaderWithFS(fsys).LoadBuiltin()
	require.NoError(t, err)
	assert.Equal(t, []string{`(Lynx)/(\d+)`}, defs.Patterns(types.KindUserAgent))
}

func TestLoadBuiltin_MissingFile(t *testing.T) {
	_, err := NewLoaderWithFS(fstest.MapFS{}).LoadBuiltin()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
}
