package oracle

import (
	"canirun/internal/constants"
	"canirun/internal/extract"
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// Resilient wraps an oracle with a request rate limit and bounded
// exponential-backoff retries. Rejected requests are not retried.
type Resilient struct {
	next        extract.Oracle
	limiter     *rate.Limiter
	maxRetries  uint64
	backoffBase time.Duration
	backoffMax  time.Duration
	callTimeout time.Duration
	logger      zerolog.Logger
}

// NewResilient limits calls to requestsPerMinute (no limit when <= 0).
func NewResilient(next extract.Oracle, maxRetries, requestsPerMinute int, logger zerolog.Logger) *Resilient {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Resilient{
		next:        next,
		limiter:     rate.NewLimiter(limit, 3),
		maxRetries:  uint64(maxRetries),
		backoffBase: constants.OracleBackoffBase,
		backoffMax:  constants.OracleBackoffMax,
		callTimeout: constants.OracleTimeout,
		logger:      logger,
	}
}

func (r *Resilient) Extract(ctx context.Context, req extract.Request) (string, error) {
	b := retry.NewExponential(r.backoffBase)
	b = retry.WithCappedDuration(r.backoffMax, b)
	b = retry.WithJitterPercent(10, b)
	b = retry.WithMaxRetries(r.maxRetries, b)

	attempt := 0
	var reply string
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}

		callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
		defer cancel()

		out, err := r.next.Extract(callCtx, req)
		if err == nil {
			reply = out
			return nil
		}
		if errors.Is(err, ErrRejected) || ctx.Err() != nil {
			return err
		}

		r.logger.Warn().Err(err).Str("kind", string(req.Kind)).Int("attempt", attempt).Msg("oracle call failed, retrying")
		return retry.RetryableError(err)
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}
