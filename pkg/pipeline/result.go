package pipeline

// StageResult is the tagged outcome every stage records in its slot of the
// shared state. A failure with Recoverable set is informational: downstream
// stages and branch predicates decide independently whether to proceed.
type StageResult struct {
	Success     bool   `json:"success"`
	Reason      string `json:"reason,omitempty"`
	Recoverable bool   `json:"recoverable,omitempty"`
}

// Succeeded returns a successful StageResult.
func Succeeded() StageResult {
	return StageResult{Success: true}
}

// Failed returns a non-recoverable failure with the given reason.
func Failed(reason string) StageResult {
	return StageResult{Reason: reason}
}

// FailedRecoverable returns a failure that does not, by itself, force
// pipeline termination.
func FailedRecoverable(reason string) StageResult {
	return StageResult{Reason: reason, Recoverable: true}
}

// Skipped marks a stage that observed a missing upstream prerequisite and
// performed no work, recording why rather than attempting further calls.
func Skipped(reason string) StageResult {
	return StageResult{Reason: reason, Recoverable: true}
}
