package middleware

import (
	"errors"
	"net/http"
	"strings"

	"comments-backend/pkg/auth"
	pkgerrors "comments-backend/pkg/errors"

	"go.uber.org/zap"
)

// AuthOptions controls how requesters without a token are identified
type AuthOptions struct {
	// Validator checks bearer tokens. When nil, any presented token is rejected.
	Validator *auth.JWTValidator

	// AllowHeaderIdentity accepts X-User-ID as the requester. Development only.
	AllowHeaderIdentity bool

	// TrustGateway accepts identity headers set after API Gateway authorization.
	TrustGateway bool

	// Fallback identifies requests that carry no credentials at all.
	Fallback *auth.UserContext
}

// Authenticate resolves the requester of every call and stores it in the
// request context. An invalid token is rejected with 401.
func Authenticate(opts AuthOptions, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolveUser(r, opts)
			if err != nil {
				logger.Warn("Authentication failed",
					zap.Error(err),
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				errorHandler.HandleStatus(w, r, http.StatusUnauthorized, unauthorizedMessage(err))
				return
			}

			if user != nil {
				logger.Debug("Request authenticated",
					zap.String("user_id", user.UserID),
					zap.String("source", user.Source),
					zap.String("path", r.URL.Path),
				)
				r = r.WithContext(auth.SetUserInContext(r.Context(), user))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func resolveUser(r *http.Request, opts AuthOptions) (*auth.UserContext, error) {
	if opts.TrustGateway && r.Header.Get("X-API-Gateway-Authorized") == "true" {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			return nil, errors.New("missing user context from API Gateway")
		}
		return &auth.UserContext{UserID: userID, Source: auth.SourceHeader}, nil
	}

	if token := extractToken(r); token != "" {
		if opts.Validator == nil {
			return nil, errors.New("token authentication is not configured")
		}
		claims, err := opts.Validator.ValidateToken(token)
		if err != nil {
			return nil, err
		}
		return &auth.UserContext{
			UserID: claims.UserID(),
			Name:   claims.Name,
			Avatar: claims.Avatar,
			Source: auth.SourceToken,
		}, nil
	}

	if opts.AllowHeaderIdentity {
		if userID := strings.TrimSpace(r.Header.Get("X-User-ID")); userID != "" {
			return &auth.UserContext{UserID: userID, Source: auth.SourceHeader}, nil
		}
	}

	return opts.Fallback, nil
}

// extractToken reads the bearer token from the Authorization header or the
// auth_token cookie
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return strings.TrimSpace(header)
	}

	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}

	return ""
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "Invalid token signature"
	default:
		return "Invalid token"
	}
}
