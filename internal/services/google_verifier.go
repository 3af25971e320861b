package services

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleClaims is the subset of a verified Google ID token the portal uses.
type GoogleClaims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// GoogleVerifier validates a Google ID token and extracts its claims.
type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleClaims, error)
}

type googleVerifier struct {
	clientID string
}

// NewGoogleVerifier returns a verifier bound to the given OAuth client ID.
func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &googleVerifier{clientID: clientID}
}

func (v *googleVerifier) Verify(ctx context.Context, credential string) (*GoogleClaims, error) {
	payload, err := idtoken.Validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("validate id token: %w", err)
	}
	claims := &GoogleClaims{Subject: payload.Subject}
	if s, ok := payload.Claims["email"].(string); ok {
		claims.Email = s
	}
	if s, ok := payload.Claims["name"].(string); ok {
		claims.Name = s
	}
	if s, ok := payload.Claims["picture"].(string); ok {
		claims.Picture = s
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("id token carries no email claim")
	}
	return claims, nil
}
