package service

import (
	"canirun/internal/compare"
	"canirun/internal/constants"
	"canirun/internal/domain"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// ErrInvalidAppID is returned before any network call when the app id is not
// a positive integer.
var ErrInvalidAppID = errors.New("app id must be a positive integer")

// ErrExtraction marks failures to turn requirement text into numbers, whether
// the oracle was unreachable or answered with something unusable.
var ErrExtraction = errors.New("requirement extraction failed")

type RequirementSource interface {
	GetGameName(ctx context.Context, appID string) (string, error)
	GetRequirementDocument(ctx context.Context, appID string, tier domain.Tier) (string, error)
}

type ProfileProvider interface {
	GetLocalProfile(ctx context.Context) (*domain.LocalSystemProfile, error)
}

type RecordBuilder interface {
	Build(ctx context.Context, markup string, tier domain.Tier) (*domain.RequirementRecord, error)
}

type CompatibilityService struct {
	source   RequirementSource
	profiles ProfileProvider
	builder  RecordBuilder
	logger   zerolog.Logger
}

func NewCompatibilityService(source RequirementSource, profiles ProfileProvider, builder RecordBuilder, logger zerolog.Logger) *CompatibilityService {
	return &CompatibilityService{source: source, profiles: profiles, builder: builder, logger: logger}
}

// ValidateAppID trims appID and checks it is numeric.
func ValidateAppID(appID string) (string, error) {
	appID = strings.TrimSpace(appID)
	n, err := strconv.ParseUint(appID, 10, 64)
	if err != nil || n == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidAppID, appID)
	}
	return appID, nil
}

// Check runs one compatibility check of the local machine against a game's
// requirements for the given tier.
func (s *CompatibilityService) Check(ctx context.Context, appID string, tier domain.Tier) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	appID, err := ValidateAppID(appID)
	if err != nil {
		return nil, err
	}

	checkID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate check id: %w", err)
	}

	logger := s.logger.With().Str("check_id", checkID).Str("app_id", appID).Str("tier", string(tier)).Logger()
	logger.Info().Msg("checking compatibility")

	markup, err := s.source.GetRequirementDocument(ctx, appID, tier)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch requirements")
		return nil, fmt.Errorf("failed to fetch requirements: %w", err)
	}

	record, err := s.builder.Build(ctx, markup, tier)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build requirement record")
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	profile, err := s.profiles.GetLocalProfile(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read local profile")
		return nil, fmt.Errorf("failed to read local profile: %w", err)
	}

	name, err := s.source.GetGameName(ctx, appID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch game name")
		return nil, fmt.Errorf("failed to fetch game name: %w", err)
	}

	results := compare.Compare(*profile, *record)
	report := &domain.Report{
		CheckID:      checkID,
		AppID:        appID,
		GameName:     name,
		Tier:         tier,
		Profile:      *profile,
		Requirements: *record,
		Results:      results,
		Summary:      compare.Summarize(results),
		Failed:       compare.Failed(results),
	}

	logger.Info().
		Str("game", name).
		Str("verdict", string(report.Summary.Verdict)).
		Int("passed", report.Summary.Passed).
		Int("total", report.Summary.Total).
		Msg("compatibility checked")

	return report, nil
}

// Profile returns the local system profile on its own.
func (s *CompatibilityService) Profile(ctx context.Context) (*domain.LocalSystemProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	profile, err := s.profiles.GetLocalProfile(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read local profile")
		return nil, fmt.Errorf("failed to read local profile: %w", err)
	}
	return profile, nil
}
