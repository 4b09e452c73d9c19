package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// TokenPayload is the decoded payload of a verified bearer token.
type TokenPayload struct {
	Issuer   string
	Audience string
	Subject  string
	Claims   map[string]interface{}
}

// TokenVerifier checks the signature, issuer and expiry of a bearer token
// and returns its payload. Implementations must reject tokens they cannot
// cryptographically attribute to the expected identity provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*TokenPayload, error)
}

// GoogleVerifier validates Google-signed OIDC ID tokens, the kind Pub/Sub
// attaches to authenticated push deliveries.
type GoogleVerifier struct {
	validator *idtoken.Validator
	audience  string
}

// NewGoogleVerifier constructs a verifier backed by Google's public certs.
// audience may be empty, in which case the token audience is not pinned.
func NewGoogleVerifier(ctx context.Context, audience string) (*GoogleVerifier, error) {
	validator, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("create ID token validator: %w", err)
	}
	return &GoogleVerifier{validator: validator, audience: audience}, nil
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*TokenPayload, error) {
	payload, err := v.validator.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, err
	}
	return &TokenPayload{
		Issuer:   payload.Issuer,
		Audience: payload.Audience,
		Subject:  payload.Subject,
		Claims:   payload.Claims,
	}, nil
}
