package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/activityhub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/activityhub/internal/dbx"
)

// SQLiteStore keeps the record in the metadata table of the local database.
// The database must already be migrated.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Save(ctx context.Context, token string, userID int64) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, []byte(token)); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyUserID, encodeInt(userID)); err != nil {
			return err
		}
		return repo.Delete(ctx, keyActiveProfileID)
	})
}

func (s *SQLiteStore) Token(ctx context.Context) (sql.NullString, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readString(ctx, metadata.NewSQLiteRepository(s.db), keyToken)
}

func (s *SQLiteStore) UserID(ctx context.Context) (sql.NullInt64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readInt(ctx, metadata.NewSQLiteRepository(s.db), keyUserID)
}

func (s *SQLiteStore) SetActiveProfile(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return metadata.NewSQLiteRepository(s.db).Set(ctx, keyActiveProfileID, encodeInt(id))
}

func (s *SQLiteStore) ActiveProfileID(ctx context.Context) (sql.NullInt64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readInt(ctx, metadata.NewSQLiteRepository(s.db), keyActiveProfileID)
}

func (s *SQLiteStore) Load(ctx context.Context) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repo := metadata.NewSQLiteRepository(s.db)

	var (
		rec Record
		err error
	)
	if rec.Token, err = s.readString(ctx, repo, keyToken); err != nil {
		return Record{}, err
	}
	if rec.UserID, err = s.readInt(ctx, repo, keyUserID); err != nil {
		return Record{}, err
	}
	if rec.ActiveProfileID, err = s.readInt(ctx, repo, keyActiveProfileID); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return metadata.NewSQLiteRepository(s.db).Delete(ctx, keyToken, keyUserID, keyActiveProfileID)
}

func (s *SQLiteStore) readString(ctx context.Context, repo metadata.Repository, key string) (sql.NullString, error) {
	v, err := repo.Get(ctx, key)
	if err != nil {
		return sql.NullString{}, err
	}
	if v == nil {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: string(v), Valid: true}, nil
}

func (s *SQLiteStore) readInt(ctx context.Context, repo metadata.Repository, key string) (sql.NullInt64, error) {
	v, err := repo.Get(ctx, key)
	if err != nil {
		return sql.NullInt64{}, err
	}
	if v == nil {
		return sql.NullInt64{}, nil
	}
	n, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("corrupt %s value %q: %w", key, v, err)
	}
	return sql.NullInt64{Int64: n, Valid: true}, nil
}

func encodeInt(v int64) []byte {
	return []byte(strconv.FormatInt(v, 10))
}
