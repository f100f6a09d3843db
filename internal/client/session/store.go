package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/migrations"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/repositories/metadata"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	keyAccessToken = "accessToken"
	keyUser        = "user"
	keyCookies     = "cookies"
)

// Session is a point-in-time view of the stored credentials.
type Session struct {
	User            *models.User
	AccessToken     string
	IsAuthenticated bool
}

type Store struct {
	db *sql.DB

	mu    sync.RWMutex
	token string
	user  *models.User
	jar   *Jar
}

// RunMigrations applies the embedded schema to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the SQLite database at dsn, migrates it and
// loads the stored session.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	// SQLite serialises writers anyway; one connection also keeps ":memory:"
	// databases shared across calls.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New builds a Store over an already migrated database and loads the
// persisted token and user into memory.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	stored, err := metadata.NewSQLiteRepository(db).List(ctx)
	if err != nil {
		return nil, err
	}

	s.token = string(stored[keyAccessToken])
	rawUser := stored[keyUser]
	if len(rawUser) > 0 {
		var u models.User
		if err := json.Unmarshal(rawUser, &u); err != nil {
			return nil, fmt.Errorf("decode cached user: %w", err)
		}
		s.user = &u
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Token returns the current access token or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the cached user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u *models.User
	if s.user != nil {
		cp := *s.user
		u = &cp
	}
	return Session{User: u, AccessToken: s.token, IsAuthenticated: s.token != ""}
}

// SetToken replaces the access token, keeping the cached user.
func (s *Store) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	return metadata.NewSQLiteRepository(s.db).Set(ctx, keyAccessToken, []byte(token))
}

// Save stores the token and user of a fresh login together.
func (s *Store) Save(ctx context.Context, token string, user models.User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUser, rawUser)
	})
}

// Clear drops the token, the cached user and the session cookies.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	jar := s.jar
	s.mu.Unlock()

	if jar != nil {
		jar.reset()
	}

	return metadata.NewSQLiteRepository(s.db).Delete(ctx, keyAccessToken, keyUser, keyCookies)
}
