package worker

// retry_cron.go
// Background goroutine that periodically re-attempts email delivery for
// documentos stuck in envio_estado='pendiente' with a next_retry_at in the
// past. Uses the Circuit Breaker to avoid hammering a downed SMTP relay.

import (
	"context"
	"time"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/infra"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	DocumentoRepo repository.DocumentoRepository
	EmailWorker   *EmailWorker
	CB            *infra.CircuitBreaker
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries documentos with a due retry, and re-attempts delivery through
// the CB. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely — don't hammer a downed relay
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	docs, err := cfg.DocumentoRepo.ListEnviosPendientes(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending deliveries")
		return
	}
	if len(docs) == 0 {
		return
	}

	log.Info().Int("count", len(docs)).Msg("retry_cron: processing pending deliveries")

	for i := range docs {
		// Check CB state before each send — it may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		// Re-fetch with relations; the listing query loads bare headers.
		doc, err := cfg.DocumentoRepo.FindByID(ctx, docs[i].ID)
		if err != nil {
			log.Error().Err(err).Str("documento_id", docs[i].ID.String()).
				Msg("retry_cron: failed to load documento")
			continue
		}
		if doc.EnvioEmail == nil || doc.PDFPath == nil {
			continue
		}

		if err := cfg.EmailWorker.Deliver(ctx, doc); err != nil {
			log.Warn().Err(err).Str("documento_id", doc.ID.String()).
				Int("retry_count", doc.RetryCount+1).
				Msg("retry_cron: delivery retry failed")
			continue
		}
		log.Info().Str("documento_id", doc.ID.String()).
			Int("total_retries", doc.RetryCount).
			Msg("retry_cron: documento delivered after retry")
	}
}
