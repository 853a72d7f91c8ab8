// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

// Package web provides the HTTP surface: server lifecycle, cookie session
// transport, and request middleware.
package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/threadline/threadline/internal/account"
)

// DefaultCookieName is the session cookie name.
const DefaultCookieName = "qid"

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	// Name of the cookie. Defaults to DefaultCookieName when empty.
	Name string

	// Domain scope for the cookie. Empty means host-only.
	Domain string

	// Secure marks the cookie HTTPS-only.
	Secure bool

	// MaxAge of the cookie. Defaults to account.SessionTTL when zero,
	// matching the server-side session expiry.
	MaxAge time.Duration
}

func (c CookieConfig) name() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}

func (c CookieConfig) maxAge() time.Duration {
	if c.MaxAge <= 0 {
		return account.SessionTTL
	}
	return c.MaxAge
}

// Session is the per-request session handle. It carries the opaque session
// identifier read from the request cookie and records whether the request
// issued a new identifier or cleared the session, so the response cookie
// can be written accordingly. A session identifier is only minted when an
// operation actually binds state to it.
type Session struct {
	mu      sync.Mutex
	id      string
	issued  bool
	cleared bool
}

// NewSession creates a session handle for a request. id is the identifier
// from the request cookie, or empty when the client sent none.
func NewSession(id string) *Session {
	return &Session{id: id}
}

// ID returns the current session identifier, or empty when the client has
// no session.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// EnsureID returns the session identifier, minting one if the request
// arrived without a cookie. Minting marks the session dirty so the
// response sets the cookie.
func (s *Session) EnsureID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == "" {
		id, err := account.NewSessionID()
		if err != nil {
			return "", err
		}
		s.id = id
		s.issued = true
	}
	s.cleared = false
	return s.id, nil
}

// Clear marks the session for removal: the response expires the cookie.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
	s.issued = false
	s.cleared = true
}

func (s *Session) state() (id string, issued, cleared bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.issued, s.cleared
}

type sessionContextKey struct{}

// WithSession returns a context carrying the session handle.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext returns the session handle stored by the session
// middleware, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionContextKey{}).(*Session)
	return s
}

// SessionMiddleware reads the session cookie into a Session handle,
// exposes it on the request context, and writes the cookie back on the
// response when the handler issued or cleared the session. The cookie is
// written lazily on the first response byte, which is always after
// resolver execution.
func SessionMiddleware(cfg CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(cfg.name()); err == nil {
				id = c.Value
			}
			sess := NewSession(id)

			cw := &cookieWriter{ResponseWriter: w, session: sess, cfg: cfg}
			next.ServeHTTP(cw, r.WithContext(WithSession(r.Context(), sess)))
			cw.flushCookie()
		})
	}
}

// cookieWriter defers the session cookie header until the handler starts
// writing the response, by which point the session's final state is known.
type cookieWriter struct {
	http.ResponseWriter
	session *Session
	cfg     CookieConfig
	done    bool
}

func (cw *cookieWriter) WriteHeader(statusCode int) {
	cw.flushCookie()
	cw.ResponseWriter.WriteHeader(statusCode)
}

func (cw *cookieWriter) Write(b []byte) (int, error) {
	cw.flushCookie()
	return cw.ResponseWriter.Write(b) //nolint:wrapcheck // passthrough writer
}

func (cw *cookieWriter) flushCookie() {
	if cw.done {
		return
	}
	cw.done = true

	id, issued, cleared := cw.session.state()
	switch {
	case cleared:
		http.SetCookie(cw.ResponseWriter, &http.Cookie{
			Name:     cw.cfg.name(),
			Value:    "",
			Path:     "/",
			Domain:   cw.cfg.Domain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cw.cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	case issued:
		http.SetCookie(cw.ResponseWriter, &http.Cookie{
			Name:     cw.cfg.name(),
			Value:    id,
			Path:     "/",
			Domain:   cw.cfg.Domain,
			MaxAge:   int(cw.cfg.maxAge() / time.Second),
			HttpOnly: true,
			Secure:   cw.cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
