package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"comments-backend/pkg/auth"
	pkgerrors "comments-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newValidator(t *testing.T) (*auth.JWTValidator, *auth.JWTGenerator) {
	t.Helper()

	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "mw-secret", Issuer: "comments-backend"})
	require.NoError(t, err)
	generator, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{SecretKey: "mw-secret", Issuer: "comments-backend"})
	require.NoError(t, err)

	return validator, generator
}

// serve runs a request through Authenticate and returns the resolved user
func serve(t *testing.T, opts AuthOptions, req *http.Request) (*httptest.ResponseRecorder, *auth.UserContext) {
	t.Helper()

	var seen *auth.UserContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := auth.GetUserFromContext(r.Context()); err == nil {
			seen = user
		}
		w.WriteHeader(http.StatusOK)
	})

	handler := Authenticate(opts, pkgerrors.NewErrorHandler(zap.NewNop(), false), zap.NewNop())(next)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec, seen
}

func TestAuthenticate(t *testing.T) {
	validator, generator := newValidator(t)
	token, err := generator.GenerateToken("13258165", "Jay Zhou", "")
	require.NoError(t, err)

	fallback := &auth.UserContext{UserID: "30009257", Source: auth.SourceSession}

	tests := []struct {
		name       string
		opts       AuthOptions
		headers    map[string]string
		cookie     string
		wantStatus int
		wantUser   string
		wantSource string
	}{
		{
			name:       "bearer token",
			opts:       AuthOptions{Validator: validator, Fallback: fallback},
			headers:    map[string]string{"Authorization": "Bearer " + token},
			wantStatus: http.StatusOK,
			wantUser:   "13258165",
			wantSource: auth.SourceToken,
		},
		{
			name:       "cookie token",
			opts:       AuthOptions{Validator: validator, Fallback: fallback},
			cookie:     token,
			wantStatus: http.StatusOK,
			wantUser:   "13258165",
			wantSource: auth.SourceToken,
		},
		{
			name:       "invalid token",
			opts:       AuthOptions{Validator: validator, Fallback: fallback},
			headers:    map[string]string{"Authorization": "Bearer nope"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "token without validator",
			opts:       AuthOptions{Fallback: fallback},
			headers:    map[string]string{"Authorization": "Bearer " + token},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no credentials uses fallback",
			opts:       AuthOptions{Validator: validator, Fallback: fallback},
			wantStatus: http.StatusOK,
			wantUser:   "30009257",
			wantSource: auth.SourceSession,
		},
		{
			name:       "header identity in development",
			opts:       AuthOptions{AllowHeaderIdentity: true, Fallback: fallback},
			headers:    map[string]string{"X-User-ID": "36080105"},
			wantStatus: http.StatusOK,
			wantUser:   "36080105",
			wantSource: auth.SourceHeader,
		},
		{
			name:       "header identity ignored otherwise",
			opts:       AuthOptions{Fallback: fallback},
			headers:    map[string]string{"X-User-ID": "36080105"},
			wantStatus: http.StatusOK,
			wantUser:   "30009257",
			wantSource: auth.SourceSession,
		},
		{
			name:       "gateway authorized",
			opts:       AuthOptions{TrustGateway: true},
			headers:    map[string]string{"X-API-Gateway-Authorized": "true", "X-User-ID": "36080105"},
			wantStatus: http.StatusOK,
			wantUser:   "36080105",
			wantSource: auth.SourceHeader,
		},
		{
			name:       "gateway without user",
			opts:       AuthOptions{TrustGateway: true},
			headers:    map[string]string{"X-API-Gateway-Authorized": "true"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no fallback leaves context empty",
			opts:       AuthOptions{},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v2/comments", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: tt.cookie})
			}

			rec, user := serve(t, tt.opts, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantUser == "" {
				assert.Nil(t, user)
				return
			}
			require.NotNil(t, user)
			assert.Equal(t, tt.wantUser, user.UserID)
			assert.Equal(t, tt.wantSource, user.Source)
		})
	}
}

func TestUnauthorizedMessage(t *testing.T) {
	assert.Equal(t, "Token has expired", unauthorizedMessage(auth.ErrExpiredToken))
	assert.Equal(t, "Invalid token signature", unauthorizedMessage(auth.ErrInvalidSignature))
	assert.Equal(t, "Invalid token", unauthorizedMessage(auth.ErrInvalidToken))
}
