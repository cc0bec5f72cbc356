package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

var ErrNotFound = errors.New("session: not found")

// Store of positions keyed by session id
type Store interface {
	// Save stores the position under a new id
	Save(ctx context.Context, pos uttt.Position) (string, error)
	Load(ctx context.Context, id string) (uttt.Position, error)
	Delete(ctx context.Context, id string) error
}

func newID() string {
	return uuid.New().String()
}
