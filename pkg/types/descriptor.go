package types

import "fmt"

// Kind names one of the three independent rule families.
type Kind string

const (
	KindUserAgent Kind = "user_agent"
	KindOS        Kind = "os"
	KindDevice    Kind = "device"
)

// Kinds lists the rule families in the order catalogs are built.
var Kinds = []Kind{KindUserAgent, KindOS, KindDevice}

// ParseKind accepts the canonical names plus the short aliases used on the command line.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "user_agent", "ua", "useragent":
		return KindUserAgent, nil
	case "os":
		return KindOS, nil
	case "device":
		return KindDevice, nil
	default:
		return "", fmt.Errorf("unknown rule kind %q (expected ua, os or device)", s)
	}
}

// UserAgentDescriptor is the serializable form of a user agent rule.
// Nil replacement fields mean "use the raw capture group".
type UserAgentDescriptor struct {
	Regex             string  `json:"regex"`
	FamilyReplacement *string `json:"family_replacement,omitempty"`
	V1Replacement     *string `json:"v1_replacement,omitempty"`
	V2Replacement     *string `json:"v2_replacement,omitempty"`
	V3Replacement     *string `json:"v3_replacement,omitempty"`
	V4Replacement     *string `json:"v4_replacement,omitempty"`
}

// Templates returns the replacement templates in capture-group order.
func (d UserAgentDescriptor) Templates() []*string {
	return []*string{d.FamilyReplacement, d.V1Replacement, d.V2Replacement, d.V3Replacement, d.V4Replacement}
}

// OSDescriptor is the serializable form of an operating system rule.
type OSDescriptor struct {
	Regex           string  `json:"regex"`
	OSReplacement   *string `json:"os_replacement,omitempty"`
	OSV1Replacement *string `json:"os_v1_replacement,omitempty"`
	OSV2Replacement *string `json:"os_v2_replacement,omitempty"`
	OSV3Replacement *string `json:"os_v3_replacement,omitempty"`
	OSV4Replacement *string `json:"os_v4_replacement,omitempty"`
}

// Templates returns the replacement templates in capture-group order.
func (d OSDescriptor) Templates() []*string {
	return []*string{d.OSReplacement, d.OSV1Replacement, d.OSV2Replacement, d.OSV3Replacement, d.OSV4Replacement}
}

// DeviceDescriptor is the serializable form of a device rule.
// RegexFlag "i" compiles the pattern case-insensitively.
type DeviceDescriptor struct {
	Regex             string  `json:"regex"`
	RegexFlag         string  `json:"regex_flag,omitempty"`
	DeviceReplacement *string `json:"device_replacement,omitempty"`
	BrandReplacement  *string `json:"brand_replacement,omitempty"`
	ModelReplacement  *string `json:"model_replacement,omitempty"`
}

// Templates returns the replacement templates in capture-group order.
func (d DeviceDescriptor) Templates() []*string {
	return []*string{d.DeviceReplacement, d.BrandReplacement, d.ModelReplacement}
}

// Definitions is a full rule set: three ordered descriptor lists.
type Definitions struct {
	UserAgents []UserAgentDescriptor `json:"user_agent_parsers"`
	OS         []OSDescriptor        `json:"os_parsers"`
	Devices    []DeviceDescriptor    `json:"device_parsers"`
}

// Count returns the number of descriptors for a kind.
func (d *Definitions) Count(kind Kind) int {
	switch kind {
	case KindUserAgent:
		return len(d.UserAgents)
	case KindOS:
		return len(d.OS)
	case KindDevice:
		return len(d.Devices)
	}
	return 0
}

// Patterns returns the regex sources for a kind in file order.
func (d *Definitions) Patterns(kind Kind) []string {
	var out []string
	switch kind {
	case KindUserAgent:
		for _, u := range d.UserAgents {
			out = append(out, u.Regex)
		}
	case KindOS:
		for _, o := range d.OS {
			out = append(out, o.Regex)
		}
	case KindDevice:
		for _, dv := range d.Devices {
			out = append(out, dv.Regex)
		}
	}
	return out
}
