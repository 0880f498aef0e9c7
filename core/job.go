package core

// Status is the terminal outcome of a single run.
type Status string

const (
	// StatusSuccess indicates the run completed normally.
	StatusSuccess Status = "success"
	// StatusError indicates the entry function or one of its handlers failed.
	StatusError Status = "error"
	// StatusTimeout indicates the run exceeded its configured budget.
	StatusTimeout Status = "timeout"
)

// Request identifies a unit of work for the execution engine. The JobID is
// caller-supplied, opaque and echoed back unchanged in the Result. State
// carries the conversation to restore; nil means "no state provided" and is
// distinct from an empty conversation.
type Request struct {
	JobID     string        `json:"job_id"`
	UserInput string        `json:"user_input"`
	State     *Conversation `json:"state,omitempty"`
}

// Result is the outcome of one run. Invariants:
//   - Status == StatusSuccess implies Error is empty
//   - Status != StatusSuccess implies ResponseText may be empty
//   - UpdatedState carries whatever state existed when the run terminated,
//     including partial state on error or timeout
type Result struct {
	JobID            string        `json:"job_id"`
	Status           Status        `json:"status"`
	ResponseText     string        `json:"response_text,omitempty"`
	UpdatedState     *Conversation `json:"updated_state,omitempty"`
	Error            string        `json:"error,omitempty"`
	ProcessingTimeMs float64       `json:"processing_time_ms,omitempty"`
}
