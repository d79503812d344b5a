// Package recipients models the people extracted from a document who must
// sign it, the positional role assignment the signing service requires,
// and the validation gate the intake pipeline applies before any remote
// call is made.
package recipients

import (
	"fmt"
	"strings"
)

// Recipient is one signer extracted from a document. Field names follow
// the wire shape shared by the extraction response, the signing API and
// the tracking store.
type Recipient struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// DisplayName returns the recipient's full name, falling back to the
// local part of the email address when both name fields are empty.
func (r Recipient) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
	if name != "" {
		return name
	}
	if at := strings.Index(r.Email, "@"); at > 0 {
		return r.Email[:at]
	}
	return r.Email
}

// roleSequence holds the named roles handed out positionally. The signing
// service rejects duplicate roles within one document, so recipients past
// the named roles receive generated numbered ones.
var roleSequence = []string{"Signer", "Approver", "CC"}

// AssignRoles returns a copy of rs with pairwise-distinct roles assigned
// by document position: the named sequence first, then "CC 2", "CC 3", and
// so on.
func AssignRoles(rs []Recipient) []Recipient {
	assigned := make([]Recipient, len(rs))
	for i, r := range rs {
		if i < len(roleSequence) {
			r.Role = roleSequence[i]
		} else {
			r.Role = fmt.Sprintf("CC %d", i-len(roleSequence)+2)
		}
		assigned[i] = r
	}
	return assigned
}
