// Package notify delivers out-of-band messages to users. Delivery is
// best-effort: callers log failures but never fail the operation that
// triggered the notification.
package notify

// Notifier sends a confirmation code to a freshly signed-up (or re-signed-up)
// user.
type Notifier interface {
	SendConfirmationCode(toEmail, username, code string) error
}
