// Package mail renders and delivers the application's outbound email:
// user credentials, password resets and club lead digests. Delivery goes
// through either AWS SES or plain SMTP depending on configuration.
package mail

import "context"

// Sender delivers a single HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
