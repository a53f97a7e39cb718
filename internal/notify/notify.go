// Package notify delivers deal alerts to users through Pushover.
package notify

import "context"

// Notifier dispatches one message to one user. Implementations must be safe
// for concurrent use.
type Notifier interface {
	Send(ctx context.Context, userKey, message string) error
}
