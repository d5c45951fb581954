// internal/service/auth/phone_provider.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"soko-service/internal/domain/auth"
	"soko-service/internal/pkg/autherr"
	"soko-service/internal/repository/postgres"
)

// PhoneMatchProvider checks that the supplied notification destination
// matches the one registered for the username, after locale-aware
// normalization.
type PhoneMatchProvider struct {
	repo CredentialStore
}

func NewPhoneMatchProvider(repo CredentialStore) *PhoneMatchProvider {
	return &PhoneMatchProvider{repo: repo}
}

func (p *PhoneMatchProvider) Supports(k auth.Kind) bool { return k == auth.KindPhoneVerification }

func (p *PhoneMatchProvider) Authenticate(ctx context.Context, payload auth.Payload) (auth.Payload, error) {
	req, ok := payload.(auth.PhoneVerification)
	if !ok {
		return nil, autherr.Internal("internal.error",
			fmt.Errorf("phone match provider handed %s payload", payload.Kind()))
	}

	locale := req.Locale
	if locale == "" {
		locale = "ko"
	}

	supplied, err := normalizeDestination(locale, req.Destination)
	if err != nil {
		return nil, err
	}

	registered, err := p.repo.FindDestinationByUsername(ctx, req.Username)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, autherr.InvalidCredentials("destination.invalid")
	}
	if err != nil {
		return nil, autherr.Internal("internal.error", err)
	}

	stored, err := normalizeDestination(locale, registered)
	if err != nil {
		return nil, autherr.Internal("internal.error",
			fmt.Errorf("stored destination unparsable for %q: %w", req.Username, err))
	}

	if supplied != stored {
		return nil, autherr.InvalidCredentials("destination.invalid")
	}

	return auth.PhoneVerification{
		Username:    req.Username,
		Destination: supplied,
		Locale:      locale,
	}, nil
}

// countryPrefixes maps supported locales to the international prefix that
// is folded back into national notation before comparison.
var countryPrefixes = map[string]struct {
	prefix string
	// trunkZero re-adds the national trunk "0" the international form drops.
	trunkZero bool
	minLen    int
	maxLen    int
}{
	"ko": {prefix: "+82", trunkZero: true, minLen: 9, maxLen: 11},
	"en": {prefix: "+1", minLen: 10, maxLen: 10},
}

// normalizeDestination reduces a phone number to national digit-only form
// for the given locale.
func normalizeDestination(locale, destination string) (string, error) {
	rules, ok := countryPrefixes[autherr.NormalizeLocale(locale)]
	if !ok {
		return "", autherr.BadRequest("locale.unsupported").WithDetail("locale", locale)
	}

	d := strings.TrimSpace(destination)
	if strings.HasPrefix(d, rules.prefix) {
		d = d[len(rules.prefix):]
		if rules.trunkZero {
			d = "0" + d
		}
	}

	var digits strings.Builder
	for _, r := range d {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '-' || r == ' ' || r == '.' || r == '(' || r == ')':
			// separators are dropped
		default:
			return "", autherr.BadRequest("destination.format").WithDetail("destination", destination)
		}
	}

	normalized := digits.String()
	if len(normalized) < rules.minLen || len(normalized) > rules.maxLen {
		return "", autherr.BadRequest("destination.format").WithDetail("destination", destination)
	}

	return normalized, nil
}
