package types

import "strings"

// OtherFamily is the family reported when no rule in a catalog matches.
const OtherFamily = "Other"

// UserAgent identifies the browser or client software.
type UserAgent struct {
	Family     string  `json:"family"`
	Major      *string `json:"major,omitempty"`
	Minor      *string `json:"minor,omitempty"`
	Patch      *string `json:"patch,omitempty"`
	PatchMinor *string `json:"patch_minor,omitempty"`
}

// OS identifies the operating system.
type OS struct {
	Family     string  `json:"family"`
	Major      *string `json:"major,omitempty"`
	Minor      *string `json:"minor,omitempty"`
	Patch      *string `json:"patch,omitempty"`
	PatchMinor *string `json:"patch_minor,omitempty"`
}

// Device identifies the hardware.
type Device struct {
	Family string  `json:"family"`
	Brand  *string `json:"brand,omitempty"`
	Model  *string `json:"model,omitempty"`
}

// Client aggregates the three records produced for a single user-agent string.
type Client struct {
	UserAgent UserAgent `json:"user_agent"`
	OS        OS        `json:"os"`
	Device    Device    `json:"device"`
}

// DefaultUserAgent returns the record used when no user agent rule matches.
func DefaultUserAgent() UserAgent {
	return UserAgent{Family: OtherFamily}
}

// DefaultOS returns the record used when no os rule matches.
func DefaultOS() OS {
	return OS{Family: OtherFamily}
}

// DefaultDevice returns the record used when no device rule matches.
func DefaultDevice() Device {
	return Device{Family: OtherFamily}
}

// Version joins the present version components with dots.
// Components after the first absent one are ignored.
func (u UserAgent) Version() string {
	return joinVersion(u.Major, u.Minor, u.Patch, u.PatchMinor)
}

// String renders the family followed by the version, e.g. "Chrome Mobile 26.0.1410.58".
func (u UserAgent) String() string {
	return withVersion(u.Family, u.Version())
}

// Version joins the present version components with dots.
func (o OS) Version() string {
	return joinVersion(o.Major, o.Minor, o.Patch, o.PatchMinor)
}

// String renders the family followed by the version, e.g. "Android 4.0.1".
func (o OS) String() string {
	return withVersion(o.Family, o.Version())
}

func (d Device) String() string {
	return d.Family
}

// IsDefault reports whether no rule classified the user agent.
func (u UserAgent) IsDefault() bool {
	return u.Family == OtherFamily && u.Major == nil && u.Minor == nil && u.Patch == nil && u.PatchMinor == nil
}

// IsDefault reports whether no rule classified the operating system.
func (o OS) IsDefault() bool {
	return o.Family == OtherFamily && o.Major == nil && o.Minor == nil && o.Patch == nil && o.PatchMinor == nil
}

// IsDefault reports whether no rule classified the device.
func (d Device) IsDefault() bool {
	return d.Family == OtherFamily && d.Brand == nil && d.Model == nil
}

// Deref returns the pointed-to string or "" when absent.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinVersion(parts ...*string) string {
	var out []string
	for _, p := range parts {
		if p == nil || *p == "" {
			break
		}
		out = append(out, *p)
	}
	return strings.Join(out, ".")
}

func withVersion(family, version string) string {
	if version == "" {
		return family
	}
	return family + " " + version
}
