package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyspotter/backend/internal/infrastructure/config"
)

func newTestVerifier(serverURL string) *TurnstileVerifier {
	return NewTurnstileVerifier(config.TurnstileConfig{
		SecretKey: "test-secret",
		VerifyURL: serverURL,
		Timeout:   5 * time.Second,
	})
}

func TestTurnstileVerify(t *testing.T) {
	t.Run("successful challenge", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "test-secret", r.PostForm.Get("secret"))
			assert.Equal(t, "tok-123", r.PostForm.Get("response"))
			assert.Equal(t, "10.0.0.1", r.PostForm.Get("remoteip"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true}`))
		}))
		defer srv.Close()

		ok, err := newTestVerifier(srv.URL).Verify(context.Background(), "tok-123", "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("failed challenge is not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
		}))
		defer srv.Close()

		ok, err := newTestVerifier(srv.URL).Verify(context.Background(), "bad-token", "")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("endpoint outage is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newTestVerifier(srv.URL).Verify(context.Background(), "tok", "")
		assert.Error(t, err)
	})
}

func TestNoopVerifier(t *testing.T) {
	ok, err := NoopVerifier{}.Verify(context.Background(), "", "")
	require.NoError(t, err)
	assert.True(t, ok)
}
