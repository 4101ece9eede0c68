package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("doctor not found")

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	// GetByID returns ErrNotFound when no doctor has the id.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	List(ctx context.Context) ([]*Doctor, error)
}
