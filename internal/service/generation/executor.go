package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumis-app/lumis-backend/internal/config"
	"github.com/lumis-app/lumis-backend/internal/domain"
	"github.com/lumis-app/lumis-backend/internal/provider"
)

// callFunc runs one provider call for a candidate model.
type callFunc func(ctx context.Context, cand config.Candidate) (provider.Payload, error)

// normalizeFunc converts a raw payload into canonical output.
type normalizeFunc func(p provider.Payload) (Output, error)

type callResult struct {
	payload provider.Payload
	err     error
}

// runCandidates walks the fallback chain strictly in order. Each candidate
// call is raced against its timeout; on timeout or a retryable failure
// (resource exhaustion, transport timeout) the next candidate is tried.
// Any other failure is fatal and stops the chain, as is a normalization
// failure on an otherwise successful response.
//
// A timed-out call is abandoned, not cancelled: its goroutine keeps running
// and delivers into a buffered channel nobody reads, so it never leaks a
// blocked goroutine. Total latency is bounded by the sum of the configured
// timeouts.
func (s *Service) runCandidates(
	ctx context.Context,
	feature domain.Feature,
	candidates []config.Candidate,
	call callFunc,
	normalize normalizeFunc,
) (Output, error) {
	if len(candidates) == 0 {
		return Output{}, fmt.Errorf("%s: no candidates configured: %w", feature, domain.ErrProviderUnavailable)
	}

	var lastErr error

	for i, cand := range candidates {
		label := cand.Provider + "/" + cand.Model

		resCh := make(chan callResult, 1)
		started := time.Now()
		go func() {
			payload, err := call(ctx, cand)
			resCh <- callResult{payload: payload, err: err}
		}()

		timer := time.NewTimer(cand.Timeout)

		select {
		case res := <-resCh:
			timer.Stop()

			if res.err != nil {
				if provider.IsRetryable(res.err) {
					s.log.WarnContext(ctx, "candidate failed, trying next",
						slog.String("feature", feature.String()),
						slog.String("candidate", label),
						slog.Int("position", i),
						slog.String("error", res.err.Error()),
					)
					lastErr = res.err
					continue
				}

				s.log.ErrorContext(ctx, "candidate failed fatally",
					slog.String("feature", feature.String()),
					slog.String("candidate", label),
					slog.String("error", res.err.Error()),
				)
				return Output{}, fmt.Errorf("%s: %v: %w", label, res.err, domain.ErrProviderUnavailable)
			}

			out, err := normalize(res.payload)
			if err != nil {
				s.log.ErrorContext(ctx, "response normalization failed",
					slog.String("feature", feature.String()),
					slog.String("candidate", label),
					slog.String("error", err.Error()),
				)
				return Output{}, fmt.Errorf("%s: %v: %w", label, err, domain.ErrProviderUnavailable)
			}

			s.log.InfoContext(ctx, "generation succeeded",
				slog.String("feature", feature.String()),
				slog.String("candidate", label),
				slog.Duration("took", time.Since(started)),
			)
			return out, nil

		case <-timer.C:
			s.log.WarnContext(ctx, "candidate timed out, trying next",
				slog.String("feature", feature.String()),
				slog.String("candidate", label),
				slog.Duration("budget", cand.Timeout),
			)
			lastErr = fmt.Errorf("%s: %w", label, provider.ErrTimeout)
		}
	}

	return Output{}, fmt.Errorf("all %d candidates failed (last: %v): %w", len(candidates), lastErr, domain.ErrProviderUnavailable)
}
