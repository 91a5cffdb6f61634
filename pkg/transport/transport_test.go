package transport_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sravansai-26/resolveit-sub000/pkg/transport"
)

// roundTripFunc lets a test stand in for the network.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func respond(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
		Header:     http.Header{},
	}
}

func TestTransport_RoundTrip(t *testing.T) {
	t.Run("attaches bearer credential", func(t *testing.T) {
		var got string
		tr := transport.New(transport.WithBase(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			got = r.Header.Get("Authorization")
			return respond(http.StatusOK), nil
		})))
		tr.SetCredential("tok-123")

		req, _ := http.NewRequest(http.MethodGet, "http://backend/auth/me", nil)
		_, err := tr.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-123", got)
	})

	t.Run("sends nothing without a credential", func(t *testing.T) {
		var got string
		tr := transport.New(transport.WithBase(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			got = r.Header.Get("Authorization")
			return respond(http.StatusOK), nil
		})))

		req, _ := http.NewRequest(http.MethodGet, "http://backend/issues", nil)
		_, err := tr.RoundTrip(req)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("does not mutate the caller's request", func(t *testing.T) {
		tr := transport.New(transport.WithBase(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return respond(http.StatusOK), nil
		})))
		tr.SetCredential("tok-123")

		req, _ := http.NewRequest(http.MethodGet, "http://backend/auth/me", nil)
		_, err := tr.RoundTrip(req)
		require.NoError(t, err)
		assert.Empty(t, req.Header.Get("Authorization"))
	})

	t.Run("clear credential stops attaching", func(t *testing.T) {
		tr := transport.New()
		tr.SetCredential("tok-123")
		tr.ClearCredential()
		assert.Empty(t, tr.Credential())
	})
}

func TestTransport_Unauthorized(t *testing.T) {
	newRejecting := func(status int, opts ...transport.Option) *transport.Transport {
		opts = append([]transport.Option{
			transport.WithBase(roundTripFunc(func(*http.Request) (*http.Response, error) {
				return respond(status), nil
			})),
		}, opts...)
		return transport.New(opts...)
	}

	t.Run("invalidates before redirecting", func(t *testing.T) {
		var order []string
		nav := transport.NewMemoryNavigator("/profile")

		tr := newRejecting(http.StatusUnauthorized,
			transport.WithInvalidator(func(context.Context) {
				order = append(order, "invalidate")
			}),
			transport.WithNavigator(navRecorder{nav, func() { order = append(order, "redirect") }}),
		)

		req, _ := http.NewRequest(http.MethodGet, "http://backend/auth/me", nil)
		_, err := tr.RoundTrip(req)
		require.NoError(t, err)

		require.Equal(t, []string{"invalidate", "redirect"}, order)
	})

	t.Run("redirects to login carrying the origin", func(t *testing.T) {
		nav := transport.NewMemoryNavigator("/issues/42")
		tr := newRejecting(http.StatusUnauthorized,
			transport.WithInvalidator(func(context.Context) {}),
			transport.WithNavigator(nav),
		)

		req, _ := http.NewRequest(http.MethodGet, "http://backend/users/me/issues", nil)
		_, err := tr.RoundTrip(req)
		require.NoError(t, err)

		visits := nav.Visits()
		require.Len(t, visits, 1)
		assert.Equal(t, "/login", visits[0].Route)
		assert.Equal(t, "/issues/42", visits[0].ReturnTo)
		assert.Equal(t, "/login", nav.Current())
	})

	t.Run("403 triggers the same policy", func(t *testing.T) {
		invalidated := false
		nav := transport.NewMemoryNavigator("/profile")
		tr := newRejecting(http.StatusForbidden,
			transport.WithInvalidator(func(context.Context) { invalidated = true }),
			transport.WithNavigator(nav),
		)

		req, _ := http.NewRequest(http.MethodGet, "http://backend/auth/me", nil)
		_, err := tr.RoundTrip(req)
		require.NoError(t, err)
		assert.True(t, invalidated)
		assert.Len(t, nav.Visits(), 1)
	})

	t.Run("no redirect on public routes", func(t *testing.T) {
		for _, route := range []string{"/login", "/register", "/forgot-password", "/reset-password"} {
			nav := transport.NewMemoryNavigator(route)
			invalidated := false
			tr := newRejecting(http.StatusUnauthorized,
				transport.WithInvalidator(func(context.Context) { invalidated = true }),
				transport.WithNavigator(nav),
			)

			req, _ := http.NewRequest(http.MethodGet, "http://backend/auth/me", nil)
			_, err := tr.RoundTrip(req)
			require.NoError(t, err)

			assert.True(t, invalidated, "session is still destroyed on %s", route)
			assert.Empty(t, nav.Visits(), "no redirect from %s", route)
		}
	})

	t.Run("repeated rejections do not loop", func(t *testing.T) {
		nav := transport.NewMemoryNavigator("/profile")
		tr := newRejecting(http.StatusUnauthorized,
			transport.WithInvalidator(func(context.Context) {}),
			transport.WithNavigator(nav),
		)

		req, _ := http.NewRequest(http.MethodGet, "http://backend/auth/me", nil)
		for i := 0; i < 3; i++ {
			_, err := tr.RoundTrip(req)
			require.NoError(t, err)
		}

		// First rejection redirects; once on /login the rest are silent.
		assert.Len(t, nav.Visits(), 1)
	})

	t.Run("success responses leave navigation alone", func(t *testing.T) {
		nav := transport.NewMemoryNavigator("/profile")
		tr := newRejecting(http.StatusOK,
			transport.WithInvalidator(func(context.Context) { t.Fatal("must not invalidate") }),
			transport.WithNavigator(nav),
		)

		req, _ := http.NewRequest(http.MethodGet, "http://backend/auth/me", nil)
		_, err := tr.RoundTrip(req)
		require.NoError(t, err)
		assert.Empty(t, nav.Visits())
	})
}

// navRecorder wraps a navigator to observe call ordering.
type navRecorder struct {
	*transport.MemoryNavigator
	onReplace func()
}

func (n navRecorder) Replace(route, returnTo string) {
	n.onReplace()
	n.MemoryNavigator.Replace(route, returnTo)
}
