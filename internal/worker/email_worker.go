package worker

// email_worker.go
// Processes email jobs from QueueEmail: sends the document PDF to the
// requested address through the SMTP circuit breaker. Delivery failures are
// recorded on the documento row (retry_count / next_retry_at) and re-attempted
// by the retry cron, not by the Redis queue, so bookkeeping lives in one place.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/infra"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxEnvioRetries caps delivery attempts before a documento is marked
// envio_estado='error'.
const MaxEnvioRetries = 5

// EmailPayload is the job envelope sent to QueueEmail.
type EmailPayload struct {
	DocumentoID string `json:"documento_id"`
}

// EmailWorker delivers document PDFs over SMTP.
type EmailWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	repo   repository.DocumentoRepository
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, repo repository.DocumentoRepository) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb, repo: repo}
}

// Process sends one document email. Returning an error re-enqueues the job,
// so only pre-send problems (bad payload, PDF not rendered yet) return one;
// SMTP failures are absorbed into the documento's retry schedule.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	id, err := uuid.Parse(payload.DocumentoID)
	if err != nil {
		return fmt.Errorf("email_worker: invalid documento_id %q: %w", payload.DocumentoID, err)
	}

	doc, err := w.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("email_worker: fetch documento: %w", err)
	}
	if doc.EnvioEstado != model.EnvioPendiente {
		log.Debug().Str("documento_id", id.String()).Str("envio_estado", doc.EnvioEstado).
			Msg("email_worker: delivery no longer pending, skipping")
		return nil
	}
	if doc.EnvioEmail == nil || *doc.EnvioEmail == "" {
		msg := "envio solicitado sin direccion de email"
		_ = w.repo.UpdateEnvio(ctx, id, model.EnvioError, doc.RetryCount, nil, &msg)
		return nil
	}
	if doc.PDFPath == nil || *doc.PDFPath == "" {
		// The PDF worker has not finished yet. Let the pool retry.
		return fmt.Errorf("email_worker: documento %s has no PDF yet", id)
	}

	if err := w.Deliver(ctx, doc); err != nil {
		log.Warn().Err(err).Str("documento_id", id.String()).Msg("email_worker: delivery failed")
	}
	return nil
}

// Deliver sends the email through the circuit breaker and updates the
// documento's envio bookkeeping. Shared with the retry cron.
func (w *EmailWorker) Deliver(ctx context.Context, doc *model.Documento) error {
	subject := fmt.Sprintf("%s N° %06d", tituloDocumento(doc.Tipo), doc.Numero)
	body := fmt.Sprintf("Estimado cliente,\n\nAdjuntamos %s N° %06d.\n\nSaludos.",
		tituloDocumento(doc.Tipo), doc.Numero)

	sendErr := w.cb.Execute(func() error {
		return w.mailer.SendDocumento(*doc.EnvioEmail, subject, body, *doc.PDFPath)
	})

	if sendErr == nil {
		if err := w.repo.UpdateEnvio(ctx, doc.ID, model.EnvioEnviado, doc.RetryCount, nil, nil); err != nil {
			return fmt.Errorf("email_worker: mark enviado: %w", err)
		}
		log.Info().Str("documento_id", doc.ID.String()).Str("to", *doc.EnvioEmail).
			Msg("email_worker: documento sent")
		return nil
	}

	retries := doc.RetryCount + 1
	errMsg := sendErr.Error()
	if retries >= MaxEnvioRetries {
		_ = w.repo.UpdateEnvio(ctx, doc.ID, model.EnvioError, retries, nil, &errMsg)
		log.Error().Str("documento_id", doc.ID.String()).Int("retries", retries).
			Msg("email_worker: max delivery retries exceeded")
		return sendErr
	}

	next := time.Now().Add(envioBackoff(retries))
	_ = w.repo.UpdateEnvio(ctx, doc.ID, model.EnvioPendiente, retries, &next, &errMsg)
	return sendErr
}

// envioBackoff returns 2^retries minutes: 2m, 4m, 8m, 16m.
func envioBackoff(retries int) time.Duration {
	return time.Duration(1<<retries) * time.Minute
}

func tituloDocumento(tipo string) string {
	switch tipo {
	case model.DocCotizacion:
		return "Cotizacion"
	case model.DocPedido:
		return "Pedido"
	case model.DocFactura:
		return "Factura"
	}
	return "Documento"
}
