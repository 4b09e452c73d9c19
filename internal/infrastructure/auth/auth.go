// Package auth authenticates Pub/Sub push deliveries. A push request must
// carry a Google-signed OIDC ID token whose verified subject email matches
// the service account configured on the push subscription.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"upload-gateway/internal/config"
)

// ClaimContextKey is the gin context key under which the verified identity
// claim is stored for downstream handlers.
const ClaimContextKey = "identity_claim"

var (
	ErrMissingToken     = errors.New("missing bearer token")
	ErrInvalidToken     = errors.New("invalid token")
	ErrNoClaims         = errors.New("token has no claims")
	ErrEmailUnverified  = errors.New("token email is not verified")
	ErrIdentityMismatch = errors.New("token email does not match expected identity")
)

// IdentityClaim is the verified identity of a push delivery.
type IdentityClaim struct {
	Email         string
	EmailVerified bool
	Audience      string
	Issuer        string
}

// Authenticator validates the bearer identity assertion on inbound push
// notifications. It holds no mutable state; the expected identity is fixed
// at construction.
type Authenticator struct {
	verifier      TokenVerifier
	expectedEmail string
	log           zerolog.Logger
}

// NewAuthenticator wires a token verifier to the expected notifier identity.
func NewAuthenticator(verifier TokenVerifier, cfg *config.Config, log zerolog.Logger) *Authenticator {
	return &Authenticator{
		verifier:      verifier,
		expectedEmail: cfg.PushServiceAccountEmail,
		log:           log.With().Str("component", "push-auth").Logger(),
	}
}

// Authenticate verifies the Authorization header of a push request and
// returns the identity claim it asserts. Any failure means the request must
// be rejected as unauthenticated and no further processing may run.
func (a *Authenticator) Authenticate(ctx context.Context, authorizationHeader string) (*IdentityClaim, error) {
	token := bearerToken(authorizationHeader)
	if token == "" {
		return nil, ErrMissingToken
	}

	payload, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if payload == nil || len(payload.Claims) == 0 {
		return nil, ErrNoClaims
	}

	if !booleanClaim(payload.Claims, "email_verified") {
		return nil, ErrEmailUnverified
	}

	email, _ := payload.Claims["email"].(string)
	if email != a.expectedEmail {
		return nil, ErrIdentityMismatch
	}

	return &IdentityClaim{
		Email:         email,
		EmailVerified: true,
		Audience:      payload.Audience,
		Issuer:        payload.Issuer,
	}, nil
}

// Middleware enforces push authentication on the routes it guards.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claim, err := a.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			a.log.Warn().Err(err).Msg("push authentication failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthenticated",
			})
			return
		}

		c.Set(ClaimContextKey, claim)
		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// booleanClaim reads a claim that identity providers encode either as a JSON
// bool or as the string "true".
func booleanClaim(claims map[string]interface{}, name string) bool {
	switch v := claims[name].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}
