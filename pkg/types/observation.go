package types

// Observation is a distinct user-agent string seen while parsing, with the
// records it resolved to and how many times it occurred.
type Observation struct {
	UserAgent string `json:"user_agent_string"`
	Client    Client `json:"client"`
	Count     int64  `json:"count"`
}

// FamilyCount is the number of observations that resolved to a family.
type FamilyCount struct {
	Family string `json:"family"`
	Count  int64  `json:"count"`
}

// FamilyOf returns the family the client reports for kind.
func (c Client) FamilyOf(kind Kind) string {
	switch kind {
	case KindUserAgent:
		return c.UserAgent.Family
	case KindOS:
		return c.OS.Family
	case KindDevice:
		return c.Device.Family
	}
	return ""
}
