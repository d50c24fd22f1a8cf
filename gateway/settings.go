package gateway

import (
	"context"
	"fmt"
	"os"

	"github.com/commercekit/stripe-gateway/preferences"
)

// Environment variables that override the persisted credential preferences.
const (
	EnvSecretKey      = "STRIPE_SECRET_KEY"
	EnvPublishableKey = "STRIPE_PUBLIC_KEY"
)

// EnvLookup reads one environment variable. os.LookupEnv satisfies it;
// tests inject their own.
type EnvLookup func(key string) (string, bool)

// Settings resolves the gateway credentials and mode. An environment
// variable, when present, always wins over the persisted preference. Nothing
// is cached; every accessor resolves fresh.
type Settings struct {
	Lookup      EnvLookup
	Preferences preferences.Store
	Production  bool
}

// SecretKey resolves the server-side API credential.
func (s *Settings) SecretKey(ctx context.Context) (string, error) {
	return s.resolve(ctx, EnvSecretKey, preferences.SecretKey)
}

// PublishableKey resolves the client-side key handed to the storefront.
func (s *Settings) PublishableKey(ctx context.Context) (string, error) {
	return s.resolve(ctx, EnvPublishableKey, preferences.PublishableKey)
}

// Server reports which provider environment the gateway targets.
func (s *Settings) Server() string {
	if s.Production {
		return "production"
	}
	return "test"
}

// TestMode reports whether charges run against the provider's test
// environment.
func (s *Settings) TestMode() bool {
	return !s.Production
}

func (s *Settings) resolve(ctx context.Context, envKey, prefName string) (string, error) {
	lookup := s.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if value, ok := lookup(envKey); ok {
		return value, nil
	}

	if s.Preferences == nil {
		return "", fmt.Errorf("%s not set and no preference store configured: %w", envKey, preferences.ErrNotFound)
	}

	value, err := s.Preferences.Get(ctx, prefName)
	if err != nil {
		return "", fmt.Errorf("resolve preference %s: %w", prefName, err)
	}
	return value, nil
}
