// Package events carries run progress to SSE subscribers as JSON lines.
package events

import (
	"encoding/json"
	"time"
)

// Version of the event envelope.
const Version = 1

const (
	SourceStarted  = "source_started"
	SourceFinished = "source_finished"
	SourceFailed   = "source_failed"
	RunStarted     = "run_started"
	RunFinished    = "run_finished"
	RunFailed      = "run_failed"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// SourcePayload accompanies the source_* events.
type SourcePayload struct {
	Source   string `json:"source"`
	Expected int    `json:"expected,omitempty"`
	Leads    int    `json:"leads"`
	Error    string `json:"error,omitempty"`
}

// RunPayload accompanies run_finished.
type RunPayload struct {
	TotalLeads       int      `json:"total_leads"`
	ContactableLeads int      `json:"contactable_leads"`
	Succeeded        int      `json:"sources_succeeded"`
	Failed           int      `json:"sources_failed"`
	FailedSources    []string `json:"failed_sources,omitempty"`
	DurationSeconds  float64  `json:"duration_seconds"`
}

// MakeEvent encodes one envelope. Payloads that fail to marshal are dropped
// rather than failing the publisher.
func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			raw = b
		}
	}
	b, _ := json.Marshal(Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	})
	return string(b)
}

// Decode parses an envelope produced by MakeEvent.
func Decode(s string) (Event, error) {
	var e Event
	err := json.Unmarshal([]byte(s), &e)
	return e, err
}
