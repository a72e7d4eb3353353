package fx

import (
	"canirun/internal/api"
	"canirun/internal/config"
	"canirun/internal/extract"
	"canirun/internal/oracle"
	"canirun/internal/profile"
	"canirun/internal/requirements"
	"canirun/internal/server"
	"canirun/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideBuilder(ex *extract.Extractor, cfg *config.Config, logger zerolog.Logger) *requirements.Builder {
	return requirements.NewBuilder(ex, cfg.ParallelExtraction, logger)
}

// Module wires everything below the command line. The logger is supplied by
// the caller so each command picks its own output.
var Module = fx.Options(
	fx.Provide(config.Load),
	// external sources
	fx.Provide(fx.Annotate(api.NewSteamClient, fx.As(new(service.RequirementSource)))),
	fx.Provide(fx.Annotate(profile.NewProvider, fx.As(new(service.ProfileProvider)))),
	// extraction
	fx.Provide(oracle.New),
	fx.Provide(extract.New),
	fx.Provide(fx.Annotate(ProvideBuilder, fx.As(new(service.RecordBuilder)))),
	// svc
	fx.Provide(fx.Annotate(service.NewCompatibilityService, fx.As(fx.Self()), fx.As(new(server.Checker)))),
	// server
	fx.Provide(server.NewCompatibilityServer),
)
