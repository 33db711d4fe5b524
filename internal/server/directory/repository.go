// Package directory is the user-directory collaborator: a single-table
// key-value store keyed by the identifier derived from the email address.
package directory

import (
	"context"
	"time"

	"github.com/flado/awareness/internal/server/models"
)

// Repository is the narrow contract the auth core consumes.
//
// Implementations return common.ErrNotFound for absent ids and
// common.ErrAlreadyExists when a conditional create collides; any other error
// is a collaborator failure the caller wraps.
type Repository interface {
	// Get fetches a record by id. The password hash is stripped unless
	// includeSecret is set; only the login path asks for it.
	Get(ctx context.Context, id string, includeSecret bool) (*models.User, error)

	// Create persists a new record conditionally on the id being absent, so
	// concurrent registrations for one email cannot both succeed. The
	// conflict outcome of this write is the sole duplicate-registration
	// signal.
	Create(ctx context.Context, user *models.User) error

	// SetActivated applies the activation transition. The update is
	// unconditional (last write wins); the transition is idempotent and
	// commutative, so racing activations are safe.
	SetActivated(ctx context.Context, id string, at time.Time) (*models.User, error)
}
