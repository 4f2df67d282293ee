package session

import (
	"context"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
)

// State is the persisted shape of a session. Tokens and the cached user are
// always written and cleared together.
type State struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user,omitempty"`
}

// Empty reports whether the state holds no credentials.
func (s *State) Empty() bool {
	return s == nil || (s.AccessToken == "" && s.RefreshToken == "")
}

// Storage persists session state across process restarts. Load returns an
// empty state, not an error, when nothing is stored.
type Storage interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
	Clear(ctx context.Context) error
}
