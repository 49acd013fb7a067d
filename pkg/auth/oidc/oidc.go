package oidc

import (
	"context"
	"net/http"

	"github.com/elimu-ai/elimu/pkg/auth"

	"github.com/coreos/go-oidc/v3/oidc"
)

var _ auth.Provider = (*Provider)(nil)

// Provider verifies bearer ID tokens against an OpenID Connect issuer.
type Provider struct {
	verifier *oidc.IDTokenVerifier
}

func New(ctx context.Context, issuer, audience string) (*Provider, error) {
	provider, err := oidc.NewProvider(ctx, issuer)

	if err != nil {
		return nil, err
	}

	return NewWithVerifier(provider.Verifier(&oidc.Config{
		ClientID: audience,
	})), nil
}

func NewWithVerifier(verifier *oidc.IDTokenVerifier) *Provider {
	return &Provider{
		verifier: verifier,
	}
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	token, err := auth.BearerToken(r)

	if err != nil {
		return ctx, err
	}

	idtoken, err := p.verifier.Verify(ctx, token)

	if err != nil {
		return ctx, err
	}

	var claims struct {
		Subject string `json:"sub"`
		Email   string `json:"email"`
	}

	if err := idtoken.Claims(&claims); err != nil {
		return ctx, err
	}

	ctx = auth.WithUser(ctx, claims.Subject)

	if claims.Email != "" {
		ctx = auth.WithEmail(ctx, claims.Email)
	}

	return ctx, nil
}
