// Package notify is the transactional-email collaborator. Delivery is best
// effort: registration succeeds once the user record is durable, whether or
// not the activation mail went out.
package notify

import (
	"context"
	"fmt"
)

// Notifier sends one message to one recipient. Implementations must be safe
// for concurrent use.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

const activationSubject = "Awareness account validation"

// ActivationURL builds the link embedded in the activation mail. The id and
// token are both URL-safe by construction.
func ActivationURL(baseURL, id, token string) string {
	return fmt.Sprintf("%s/activate/%s?token=%s", baseURL, id, token)
}

// ActivationMail composes the subject and HTML body of the activation mail.
func ActivationMail(firstName, activateURL string) (subject, body string) {
	body = fmt.Sprintf(
		"Hello %s,<br>Welcome to The Awareness Meditation!<br>Click <a href=%q>here</a> to activate your account.",
		firstName, activateURL)
	return activationSubject, body
}
