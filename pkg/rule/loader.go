package rule

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/praetorian-inc/uaparser/pkg/types"
	"gopkg.in/yaml.v3"
)

// Loader handles loading rule catalogs from YAML.
type Loader struct {
	fs fs.FS // embedded filesystem for the builtin catalog
}

// NewLoader creates a loader whose builtin catalog is the embedded regexes.yaml.
func NewLoader() *Loader {
	return &Loader{
		fs: builtinRulesFS,
	}
}

// NewLoaderWithFS creates a loader with a custom filesystem.
// LoadBuiltin reads regexes.yaml from the root of fsys.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{
		fs: fsys,
	}
}

// Load parses a catalog from YAML bytes.
// Descriptors keep the order in which they appear in the document.
func (l *Loader) Load(data []byte) (*types.Definitions, error) {
	var yamlFile yamlRegexesFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrMalformedDescriptor, err)
	}

	defs, err := convertYAMLFile(yamlFile)
	if err != nil {
		return nil, err
	}
	if err := Validate(defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// LoadReader reads a catalog from r.
func (l *Loader) LoadReader(r io.Reader) (*types.Definitions, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return l.Load(data)
}

// LoadFile reads a catalog from a file path.
func (l *Loader) LoadFile(path string) (*types.Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read file %s: %w", ErrSourceUnavailable, path, err)
	}

	defs, err := l.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// LoadBuiltin loads the catalog shipped with the loader's filesystem.
func (l *Loader) LoadBuiltin() (*types.Definitions, error) {
	data, err := fs.ReadFile(l.fs, builtinRegexesFile)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read builtin %s: %w", ErrSourceUnavailable, builtinRegexesFile, err)
	}
	return l.Load(data)
}

func convertYAMLFile(f yamlRegexesFile) (*types.Definitions, error) {
	defs := &types.Definitions{}

	for i, p := range f.UserAgentParsers {
		regex, err := requireRegex(types.KindUserAgent, i, p.Regex)
		if err != nil {
			return nil, err
		}
		defs.UserAgents = append(defs.UserAgents, types.UserAgentDescriptor{
			Regex:             regex,
			FamilyReplacement: p.FamilyReplacement,
			V1Replacement:     p.V1Replacement,
			V2Replacement:     p.V2Replacement,
			V3Replacement:     p.V3Replacement,
			V4Replacement:     p.V4Replacement,
		})
	}

	for i, p := range f.OSParsers {
		regex, err := requireRegex(types.KindOS, i, p.Regex)
		if err != nil {
			return nil, err
		}
		defs.OS = append(defs.OS, types.OSDescriptor{
			Regex:           regex,
			OSReplacement:   p.OSReplacement,
			OSV1Replacement: p.OSV1Replacement,
			OSV2Replacement: p.OSV2Replacement,
			OSV3Replacement: p.OSV3Replacement,
			OSV4Replacement: p.OSV4Replacement,
		})
	}

	for i, p := range f.DeviceParsers {
		regex, err := requireRegex(types.KindDevice, i, p.Regex)
		if err != nil {
			return nil, err
		}
		defs.Devices = append(defs.Devices, types.DeviceDescriptor{
			Regex:             regex,
			RegexFlag:         p.RegexFlag,
			DeviceReplacement: p.DeviceReplacement,
			BrandReplacement:  p.BrandReplacement,
			ModelReplacement:  p.ModelReplacement,
		})
	}

	return defs, nil
}

func requireRegex(kind types.Kind, index int, regex *string) (string, error) {
	if regex == nil || *regex == "" {
		return "", fmt.Errorf("%w: %s parser %d has no regex", ErrMalformedDescriptor, kind, index)
	}
	return *regex, nil
}
