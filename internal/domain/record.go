package domain

// Result values fixed by the upload schema.
const (
	ResultPassed = "passed"
	ResultFailed = "failed"
)

// TestRecord is the accumulated state for one test, built from its
// started/ok/failed events.
type TestRecord struct {
	ID            string  `json:"id"`
	Scope         string  `json:"scope"`
	Name          string  `json:"name"`
	Result        string  `json:"result"`
	FailureReason *string `json:"failure_reason,omitempty"`
	History       Timing  `json:"history"`

	// FullName is the original test name before the scope split. It is the
	// aggregation key and not part of the upload schema.
	FullName string `json:"-"`
}

// Complete reports whether the record has received its terminal (ok/failed)
// event. Started-but-never-finished tests stay incomplete.
func (r TestRecord) Complete() bool {
	return r.History.EndAt != nil
}

// Timing holds offsets relative to the suite start, in seconds. Children is
// reserved for nested timing spans and stays empty for top-level records.
type Timing struct {
	Section  string   `json:"section"`
	StartAt  *float64 `json:"start_at"`
	EndAt    *float64 `json:"end_at"`
	Duration *float64 `json:"duration"`
	Children []Timing `json:"children"`
}
