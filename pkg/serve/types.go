package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/uaparser/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "parse" | "parse_batch" | "close"
	Payload json.RawMessage `json:"payload"`
}

// ParsePayload is the payload for "parse" requests and each batch item.
// ID is echoed back so callers can correlate batch results.
type ParsePayload struct {
	ID        string `json:"id,omitempty"`
	UserAgent string `json:"user_agent"`
}

// ParseBatchPayload is the payload for "parse_batch" requests
type ParseBatchPayload struct {
	Items []ParsePayload `json:"items"`
}

// ParseResult is the data field for "parse" responses.
// The embedded client contributes the user_agent, os and device keys.
type ParseResult struct {
	ID     string `json:"id,omitempty"`
	String string `json:"string"`
	types.Client
}

// BatchResult is the data field for "parse_batch" responses
type BatchResult struct {
	Results []ParseResult `json:"results"`
	Total   int           `json:"total"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | "parse" | "parse_batch" | "decode" | "unknown"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
	Rules   int    `json:"rules"`
}
