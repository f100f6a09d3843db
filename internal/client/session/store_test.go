package session

import (
	"context"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, dsn string) *Store {
	t.Helper()
	s, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_EmptyDatabaseIsUnauthenticated(t *testing.T) {
	s := openStore(t, ":memory:")

	snap := s.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Empty(t, snap.AccessToken)
	assert.Nil(t, snap.User)
	assert.Nil(t, s.User())
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	s := openStore(t, ":memory:")
	require.NoError(t, RunMigrations(context.Background(), s.db))
}

func TestSave_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	user := models.User{ID: "u1", Username: "ann", Email: "ann@example.com"}
	require.NoError(t, s.Save(ctx, "tok-1", user))
	require.NoError(t, s.Close())

	reopened := openStore(t, dsn)
	snap := reopened.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "tok-1", snap.AccessToken)
	require.NotNil(t, snap.User)
	assert.Equal(t, user, *snap.User)
}

func TestSetToken_KeepsUser(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, ":memory:")
	require.NoError(t, s.Save(ctx, "old", models.User{ID: "u1"}))

	require.NoError(t, s.SetToken(ctx, "new"))

	assert.Equal(t, "new", s.Token())
	require.NotNil(t, s.User())
	assert.Equal(t, "u1", s.User().ID)
}

func TestClear_RemovesTokenAndUserTogether(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "tok", models.User{ID: "u1"}))
	require.NoError(t, s.Clear(ctx))

	assert.False(t, s.Snapshot().IsAuthenticated)
	assert.Nil(t, s.User())
	require.NoError(t, s.Close())

	reopened := openStore(t, dsn)
	assert.Equal(t, Session{}, reopened.Snapshot())
}

func TestUser_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, ":memory:")
	require.NoError(t, s.Save(ctx, "tok", models.User{ID: "u1", Username: "ann"}))

	u := s.User()
	u.Username = "mallory"

	assert.Equal(t, "ann", s.User().Username)
}

func TestCookieJar_PersistsAndClears(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "session.db")
	api, _ := url.Parse("http://api.example.com/api/v1/users/login")

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	jar, err := s.CookieJar(ctx)
	require.NoError(t, err)
	jar.SetCookies(api, []*http.Cookie{{Name: "refreshToken", Value: "r1", Path: "/", MaxAge: 3600}})
	require.NoError(t, s.Close())

	reopened := openStore(t, dsn)
	jar2, err := reopened.CookieJar(ctx)
	require.NoError(t, err)

	refresh, _ := url.Parse("http://api.example.com/api/v1/users/refresh-token")
	cookies := jar2.Cookies(refresh)
	require.Len(t, cookies, 1)
	assert.Equal(t, "refreshToken", cookies[0].Name)
	assert.Equal(t, "r1", cookies[0].Value)

	require.NoError(t, reopened.Clear(ctx))
	assert.Empty(t, jar2.Cookies(refresh))
}

func TestCookieJar_DeletedCookieIsForgotten(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, ":memory:")
	u, _ := url.Parse("http://api.example.com/")

	jar, err := s.CookieJar(ctx)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "refreshToken", Value: "r1", Path: "/"}})
	jar.SetCookies(u, []*http.Cookie{{Name: "refreshToken", Path: "/", MaxAge: -1}})

	assert.Empty(t, jar.Cookies(u))
	assert.Empty(t, jar.saved)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)

	got, ok := TokenExpiry(tok)
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)

	_, ok = TokenExpiry("")
	assert.False(t, ok)
}
