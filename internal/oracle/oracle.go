package oracle

import (
	"canirun/internal/config"
	"canirun/internal/extract"

	"github.com/rs/zerolog"
)

// New builds the oracle selected by ORACLE_PROVIDER. Network-backed oracles
// come wrapped in Resilient; the rule-based one needs no wrapping.
func New(cfg *config.Config, logger zerolog.Logger) (extract.Oracle, error) {
	if cfg.OracleProvider == config.OracleProviderRules {
		logger.Debug().Msg("using rule-based oracle")
		return NewRules(), nil
	}

	client, err := NewOpenAI(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewResilient(client, cfg.OracleMaxRetries, cfg.OracleRequestsPerMinute, logger), nil
}
