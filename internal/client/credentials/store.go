package credentials

import (
	"context"
	"database/sql"
	"errors"
)

// Key names in the metadata table.
const (
	keyToken           = "token"
	keyUserID          = "user_id"
	keyActiveProfileID = "active_profile_id"
)

var ErrEmptyToken = errors.New("empty token")

// Record is a consistent snapshot of the stored session.
type Record struct {
	Token           sql.NullString
	UserID          sql.NullInt64
	ActiveProfileID sql.NullInt64
}

// Authenticated reports whether the record carries a token.
func (r Record) Authenticated() bool {
	return r.Token.Valid
}

type Store interface {
	// Save overwrites the session with a new token and user id. The active
	// profile of the previous session is dropped.
	Save(ctx context.Context, token string, userID int64) error
	Token(ctx context.Context) (sql.NullString, error)
	UserID(ctx context.Context) (sql.NullInt64, error)
	SetActiveProfile(ctx context.Context, id int64) error
	ActiveProfileID(ctx context.Context) (sql.NullInt64, error)
	Load(ctx context.Context) (Record, error)
	// Clear removes everything. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
