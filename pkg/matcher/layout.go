package matcher

import "github.com/praetorian-inc/uaparser/pkg/types"

// Field binds one output field of a record to its capture group.
type Field struct {
	Name     string
	Group    int
	Required bool
}

// Layout is the ordered field list of a record family.
// Replacement templates are supplied in the same order.
type Layout []Field

var (
	// UserAgentLayout: family and four version components.
	UserAgentLayout = Layout{
		{Name: "family", Group: 1, Required: true},
		{Name: "major", Group: 2},
		{Name: "minor", Group: 3},
		{Name: "patch", Group: 4},
		{Name: "patch_minor", Group: 5},
	}

	// OSLayout mirrors UserAgentLayout.
	OSLayout = Layout{
		{Name: "family", Group: 1, Required: true},
		{Name: "major", Group: 2},
		{Name: "minor", Group: 3},
		{Name: "patch", Group: 4},
		{Name: "patch_minor", Group: 5},
	}

	// DeviceLayout: family, brand and model.
	DeviceLayout = Layout{
		{Name: "family", Group: 1, Required: true},
		{Name: "brand", Group: 2},
		{Name: "model", Group: 3},
	}
)

// LayoutFor returns the field layout of a rule family.
func LayoutFor(kind types.Kind) Layout {
	switch kind {
	case types.KindOS:
		return OSLayout
	case types.KindDevice:
		return DeviceLayout
	default:
		return UserAgentLayout
	}
}

// Extract produces the value of a single field.
//
// A configured template always yields a present value, even when it expands
// to "". Without a template the raw capture is used: the required field falls
// back to "", optional fields collapse absent and empty captures to nil.
func (f Field) Extract(template *string, caps Captures) *string {
	if template != nil {
		v := Expand(*template, caps)
		return &v
	}

	v, ok := caps.Group(f.Group)
	if f.Required {
		return &v
	}
	if !ok || v == "" {
		return nil
	}
	return &v
}

// Extract applies each field's policy; templates must align with the layout.
func (l Layout) Extract(templates []*string, caps Captures) []*string {
	values := make([]*string, len(l))
	for i, f := range l {
		var tpl *string
		if i < len(templates) {
			tpl = templates[i]
		}
		values[i] = f.Extract(tpl, caps)
	}
	return values
}

func userAgentFromValues(v []*string) types.UserAgent {
	return types.UserAgent{
		Family:     types.Deref(v[0]),
		Major:      v[1],
		Minor:      v[2],
		Patch:      v[3],
		PatchMinor: v[4],
	}
}

func osFromValues(v []*string) types.OS {
	return types.OS{
		Family:     types.Deref(v[0]),
		Major:      v[1],
		Minor:      v[2],
		Patch:      v[3],
		PatchMinor: v[4],
	}
}

func deviceFromValues(v []*string) types.Device {
	return types.Device{
		Family: types.Deref(v[0]),
		Brand:  v[1],
		Model:  v[2],
	}
}
