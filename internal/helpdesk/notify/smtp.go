package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender delivers events as plain-text mail to a fixed recipient, the
// way the helpdesk inbox expects them.
type SMTPSender struct {
	Addr      string // host:port of the relay
	From      string
	Recipient string
}

func (s *SMTPSender) Send(_ context.Context, ev Event) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.From)
	fmt.Fprintf(&b, "To: %s\r\n", s.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", ev.Subject())
	b.WriteString("\r\n")
	b.WriteString(ev.Body())

	return smtp.SendMail(s.Addr, nil, s.From, []string{s.Recipient}, []byte(b.String()))
}
