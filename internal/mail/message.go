package mail

import (
	"fmt"
	"strings"
)

// Message is one outbound HTML email.
type Message struct {
	To       []string
	CC       []string
	Subject  string
	HTMLBody string
}

// Envelope returns every delivery address: To plus CC.
func (m *Message) Envelope() []string {
	all := make([]string, 0, len(m.To)+len(m.CC))
	all = append(all, m.To...)
	all = append(all, m.CC...)
	return all
}

// encode renders the RFC 5322 wire form with an HTML body.
func (m *Message) encode(from, fromName string) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.To, ", "))
	if len(m.CC) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(m.CC, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.HTMLBody)

	return []byte(b.String())
}
