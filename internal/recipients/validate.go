package recipients

import (
	"fmt"
	"strings"
)

// Validation is the complete set of violations found across a recipient
// list. All violations are collected, not just the first, so one report
// covers everything wrong with the extraction.
type Validation struct {
	Violations []string `json:"violations,omitempty"`
}

// Valid reports whether the recipient list passed validation.
func (v Validation) Valid() bool {
	return len(v.Violations) == 0
}

// Validate checks every recipient for a syntactically plausible email and
// a non-empty first name. Last name and role are optional. Violation
// messages number recipients by document position, 1-based.
func Validate(rs []Recipient) Validation {
	var v Validation
	for i, r := range rs {
		if !plausibleEmail(r.Email) {
			v.Violations = append(v.Violations, fmt.Sprintf("recipient %d: invalid email format", i+1))
		}
		if strings.TrimSpace(r.FirstName) == "" {
			v.Violations = append(v.Violations, fmt.Sprintf("recipient %d: first name is empty", i+1))
		}
	}
	return v
}

// plausibleEmail requires an "@" and a "." in the domain part. Full
// address validation belongs to the mail transport; this gate only rejects
// extractions that cannot possibly deliver.
func plausibleEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
