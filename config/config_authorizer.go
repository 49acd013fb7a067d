package config

import (
	"context"
	"errors"
	"strings"

	"github.com/elimu-ai/elimu/pkg/auth"
	"github.com/elimu-ai/elimu/pkg/auth/header"
	"github.com/elimu-ai/elimu/pkg/auth/oidc"
	"github.com/elimu-ai/elimu/pkg/auth/static"
)

type authorizerConfig struct {
	Type string `yaml:"type"`

	Token string `yaml:"token"`

	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`

	UserHeader  string `yaml:"user_header"`
	EmailHeader string `yaml:"email_header"`
}

func (cfg *Config) registerAuthorizers(f *configFile) error {
	for _, a := range f.Authorizers {
		authorizer, err := createAuthorizer(a)

		if err != nil {
			return err
		}

		cfg.Authorizers = append(cfg.Authorizers, authorizer)
	}

	return nil
}

func createAuthorizer(cfg authorizerConfig) (auth.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "static":
		return static.New(cfg.Token)

	case "header":
		var options []header.Option

		if cfg.UserHeader != "" {
			options = append(options, header.WithUserHeader(cfg.UserHeader))
		}

		if cfg.EmailHeader != "" {
			options = append(options, header.WithEmailHeader(cfg.EmailHeader))
		}

		return header.New(options...)

	case "oidc":
		if cfg.Issuer == "" {
			return nil, errors.New("oidc authorizer requires an issuer")
		}

		return oidc.New(context.Background(), cfg.Issuer, cfg.Audience)

	default:
		return nil, errors.New("invalid authorizer type: " + cfg.Type)
	}
}
