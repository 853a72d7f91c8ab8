// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/threadline/internal/web"
)

func runSession(t *testing.T, cfg web.CookieConfig, requestCookie string, handler func(*web.Session)) *http.Response {
	t.Helper()

	h := web.SessionMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := web.SessionFromContext(r.Context())
		require.NotNil(t, sess, "session missing from context")
		handler(sess)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	if requestCookie != "" {
		req.AddCookie(&http.Cookie{Name: cfg.Name, Value: requestCookie})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result()
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionMiddleware(t *testing.T) {
	cfg := web.CookieConfig{Name: "qid"}

	t.Run("no cookie is issued for an untouched session", func(t *testing.T) {
		resp := runSession(t, cfg, "", func(sess *web.Session) {
			assert.Empty(t, sess.ID())
		})
		assert.Nil(t, findCookie(resp, "qid"))
	})

	t.Run("minting an id sets the cookie", func(t *testing.T) {
		var minted string
		resp := runSession(t, cfg, "", func(sess *web.Session) {
			id, err := sess.EnsureID()
			require.NoError(t, err)
			minted = id
		})

		c := findCookie(resp, "qid")
		require.NotNil(t, c)
		assert.Equal(t, minted, c.Value)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, "/", c.Path)
		assert.Positive(t, c.MaxAge)
	})

	t.Run("existing cookie is read and not re-set", func(t *testing.T) {
		resp := runSession(t, cfg, "existing-id", func(sess *web.Session) {
			assert.Equal(t, "existing-id", sess.ID())

			// EnsureID keeps the existing identifier.
			id, err := sess.EnsureID()
			require.NoError(t, err)
			assert.Equal(t, "existing-id", id)
		})
		assert.Nil(t, findCookie(resp, "qid"))
	})

	t.Run("clearing the session expires the cookie", func(t *testing.T) {
		resp := runSession(t, cfg, "existing-id", func(sess *web.Session) {
			sess.Clear()
			assert.Empty(t, sess.ID())
		})

		c := findCookie(resp, "qid")
		require.NotNil(t, c)
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	})

	t.Run("empty name falls back to default", func(t *testing.T) {
		h := web.SessionMiddleware(web.CookieConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := web.SessionFromContext(r.Context()).EnsureID()
			require.NoError(t, err)
		}))

		req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		c := findCookie(rec.Result(), web.DefaultCookieName)
		require.NotNil(t, c)
	})
}

func TestSessionFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, web.SessionFromContext(req.Context()))
}
