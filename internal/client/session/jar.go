package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/repositories/metadata"
)

// Jar is an http.CookieJar whose cookies survive restarts by being written
// to the session store.
type Jar struct {
	store *Store

	mu    sync.Mutex
	inner *cookiejar.Jar
	saved map[string]savedCookie
}

type savedCookie struct {
	URL      string    `json:"url"`
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

func (c savedCookie) key() string {
	return c.URL + "|" + c.Domain + "|" + c.Path + "|" + c.Name
}

func (c savedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// CookieJar returns the store's jar, restoring persisted cookies on first
// use.
func (s *Store) CookieJar(ctx context.Context) (*Jar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.jar != nil {
		return s.jar, nil
	}

	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &Jar{store: s, inner: inner, saved: make(map[string]savedCookie)}

	raw, err := metadata.NewSQLiteRepository(s.db).Get(ctx, keyCookies)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		var list []savedCookie
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode cookies: %w", err)
		}
		now := time.Now()
		for _, c := range list {
			if c.expired(now) {
				continue
			}
			u, err := url.Parse(c.URL)
			if err != nil {
				continue
			}
			j.saved[c.key()] = c
			inner.SetCookies(u, []*http.Cookie{c.cookie()})
		}
	}

	s.jar = j
	return j, nil
}

func (c savedCookie) cookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	j.inner.SetCookies(u, cookies)

	now := time.Now()
	origin := (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()
	for _, c := range cookies {
		sc := savedCookie{
			URL:      origin,
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.MaxAge > 0 {
			sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || sc.expired(now) {
			delete(j.saved, sc.key())
			continue
		}
		j.saved[sc.key()] = sc
	}

	list := make([]savedCookie, 0, len(j.saved))
	for _, c := range j.saved {
		list = append(list, c)
	}
	j.mu.Unlock()

	// Persisting is best effort: the cookie is already usable in memory.
	if raw, err := json.Marshal(list); err == nil {
		_ = metadata.NewSQLiteRepository(j.store.db).Set(context.Background(), keyCookies, raw)
	}
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

func (j *Jar) reset() {
	inner, _ := cookiejar.New(nil)

	j.mu.Lock()
	j.inner = inner
	j.saved = make(map[string]savedCookie)
	j.mu.Unlock()
}
