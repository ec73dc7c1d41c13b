package service

import (
	"context"
	"log"
)

// Mailer delivers the one-time confirmation code out-of-band. The transport
// is a deployment concern; the service only needs the contract.
type Mailer interface {
	SendConfirmationCode(ctx context.Context, email, code string) error
}

type logMailer struct{}

// NewLogMailer returns a Mailer that writes codes to the process log,
// which is the delivery channel in development.
func NewLogMailer() Mailer {
	return logMailer{}
}

func (logMailer) SendConfirmationCode(_ context.Context, email, code string) error {
	log.Printf("confirmation code for %s: %s", email, code)
	return nil
}
