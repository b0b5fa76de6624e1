package mock

import (
	"context"

	"github.com/fwojciec/docgrab"
)

var _ docgrab.PreferenceService = (*PreferenceService)(nil)

// PreferenceService is a mock implementation of docgrab.PreferenceService.
type PreferenceService struct {
	FindPreferencesFn func(ctx context.Context) (*docgrab.Preferences, error)
	SetPreferenceFn   func(ctx context.Context, key, value string) error
}

func (s *PreferenceService) FindPreferences(ctx context.Context) (*docgrab.Preferences, error) {
	return s.FindPreferencesFn(ctx)
}

func (s *PreferenceService) SetPreference(ctx context.Context, key, value string) error {
	return s.SetPreferenceFn(ctx, key, value)
}
