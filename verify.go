package uaparser

import (
	"fmt"

	"github.com/praetorian-inc/uaparser/pkg/rule"
	"github.com/praetorian-inc/uaparser/pkg/types"
)

// Mismatch describes one field where a parse disagreed with a fixture.
type Mismatch struct {
	Case      int    `json:"case"`
	UserAgent string `json:"user_agent"`
	Field     string `json:"field"`
	Want      string `json:"want"`
	Got       string `json:"got"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("case %d %s: want %s, got %s", m.Case, m.Field, m.Want, m.Got)
}

// Verify parses every test case with the catalog for kind and reports each
// field that differs from the expectation.
//
// User agent cases compare family, major, minor and patch. OS cases also
// compare patch_minor. Device cases compare family, brand and model.
func (p *Parser) Verify(kind types.Kind, cases []rule.TestCase) ([]Mismatch, error) {
	var mismatches []Mismatch

	for i, tc := range cases {
		var fields []fieldCheck
		switch kind {
		case types.KindUserAgent:
			got := p.ParseUserAgent(tc.UserAgent)
			fields = []fieldCheck{
				{"family", &tc.Family, &got.Family},
				{"major", tc.Major, got.Major},
				{"minor", tc.Minor, got.Minor},
				{"patch", tc.Patch, got.Patch},
			}
		case types.KindOS:
			got := p.ParseOS(tc.UserAgent)
			fields = []fieldCheck{
				{"family", &tc.Family, &got.Family},
				{"major", tc.Major, got.Major},
				{"minor", tc.Minor, got.Minor},
				{"patch", tc.Patch, got.Patch},
				{"patch_minor", tc.PatchMinor, got.PatchMinor},
			}
		case types.KindDevice:
			got := p.ParseDevice(tc.UserAgent)
			fields = []fieldCheck{
				{"family", &tc.Family, &got.Family},
				{"brand", tc.Brand, got.Brand},
				{"model", tc.Model, got.Model},
			}
		default:
			return nil, fmt.Errorf("unknown kind %q", kind)
		}

		for _, f := range fields {
			if equalValue(f.want, f.got) {
				continue
			}
			mismatches = append(mismatches, Mismatch{
				Case:      i,
				UserAgent: tc.UserAgent,
				Field:     f.name,
				Want:      showValue(f.want),
				Got:       showValue(f.got),
			})
		}
	}

	return mismatches, nil
}

type fieldCheck struct {
	name string
	want *string
	got  *string
}

func equalValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func showValue(v *string) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%q", *v)
}
