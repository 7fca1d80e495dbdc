package checksrvc

// Status is the outcome class of one check execution.
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusError Status = "error"
)

// Outcome is what a single check run produced. Output is captured for audit
// and debugging only and never affects scoring.
type Outcome struct {
	Status Status
	Output string
}
