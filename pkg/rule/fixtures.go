package rule

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TestCase is one expected parse from a test_cases fixture.
// Version fields apply to user agent and os fixtures, Brand and Model to device fixtures.
type TestCase struct {
	UserAgent  string
	Family     string
	Major      *string
	Minor      *string
	Patch      *string
	PatchMinor *string
	Brand      *string
	Model      *string
}

// LoadTestCases parses a test_cases fixture from YAML bytes.
func LoadTestCases(data []byte) ([]TestCase, error) {
	var f yamlTestCasesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: failed to parse fixture: %w", ErrMalformedDescriptor, err)
	}
	if len(f.TestCases) == 0 {
		return nil, fmt.Errorf("%w: no test_cases found", ErrMalformedDescriptor)
	}

	cases := make([]TestCase, 0, len(f.TestCases))
	for _, tc := range f.TestCases {
		cases = append(cases, TestCase{
			UserAgent:  tc.UserAgentString,
			Family:     tc.Family,
			Major:      tc.Major,
			Minor:      tc.Minor,
			Patch:      tc.Patch,
			PatchMinor: tc.PatchMinor,
			Brand:      tc.Brand,
			Model:      tc.Model,
		})
	}
	return cases, nil
}

// LoadTestCasesFile reads a test_cases fixture from a file path.
func LoadTestCasesFile(path string) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read file %s: %w", ErrSourceUnavailable, path, err)
	}
	return LoadTestCases(data)
}
