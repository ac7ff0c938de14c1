package domain

import "context"

// NotificationResult is what the relay reports back. Callers are free
// to ignore it, notification delivery is advisory.
type NotificationResult struct {
	Success      bool `json:"success"`
	SuccessCount int  `json:"successCount"`
	FailureCount int  `json:"failureCount"`
}

// Notifier delivers push notifications through the external relay. The
// relay resolves device tokens server-side, this service only names the
// recipient.
type Notifier interface {
	NotifyUser(ctx context.Context, userID string, title string, body string, data map[string]string) (*NotificationResult, error)
	NotifyAdmins(ctx context.Context, title string, body string, data map[string]string) (*NotificationResult, error)
}

// Mailer is the secondary advisory channel, mail to the denormalized
// address on the reservation record.
type Mailer interface {
	SendStatusMail(to string, subject string, body string) error
}
