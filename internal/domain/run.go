package domain

// RunMeta contains metadata about one collected run
type RunMeta struct {
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	IncompleteTests int     `json:"incomplete_tests"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Batches         int     `json:"batches"`
	Timestamp       string  `json:"timestamp"`
}

// FailedTest is the stored view of one failed record, kept for the failures
// viewer.
type FailedTest struct {
	Scope           string  `json:"scope"`
	Name            string  `json:"name"`
	Reason          string  `json:"reason"`
	DurationSeconds float64 `json:"duration_seconds"`
	Resolved        bool    `json:"resolved,omitempty"` // Track if failure is marked as resolved
}

// RunOutput is the complete stored shape of the last run
type RunOutput struct {
	Meta    RunMeta      `json:"meta"`
	Details []FailedTest `json:"details"`
}
