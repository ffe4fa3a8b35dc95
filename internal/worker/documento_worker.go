package worker

// documento_worker.go
// Processes PDF generation jobs from QueueDocumentoPDF.
// Renders the A4 document PDF, stores its path, and chains an email job
// when the document has a pending delivery request.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/infra"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DocumentoPDFPayload is the job envelope sent to QueueDocumentoPDF.
type DocumentoPDFPayload struct {
	DocumentoID string `json:"documento_id"`
}

// DocumentoPDFWorker renders document PDFs in the background so Emitir
// returns without waiting on file IO.
type DocumentoPDFWorker struct {
	repo        repository.DocumentoRepository
	dispatcher  *Dispatcher
	storagePath string
}

func NewDocumentoPDFWorker(repo repository.DocumentoRepository, dispatcher *Dispatcher, storagePath string) *DocumentoPDFWorker {
	return &DocumentoPDFWorker{repo: repo, dispatcher: dispatcher, storagePath: storagePath}
}

// Process handles a single PDF job:
//  1. Parse DocumentoPDFPayload from the job envelope
//  2. Fetch the Documento (with empresa, moneda and lines) from DB
//  3. Render the A4 PDF and persist its path
//  4. Chain an email job when delivery is pending
//
// A returned error re-enqueues the job; the pool moves it to the DLQ
// after maxAttempts.
func (w *DocumentoPDFWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload DocumentoPDFPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("documento_worker: invalid payload: %w", err)
	}
	id, err := uuid.Parse(payload.DocumentoID)
	if err != nil {
		return fmt.Errorf("documento_worker: invalid documento_id %q: %w", payload.DocumentoID, err)
	}

	doc, err := w.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("documento_worker: fetch documento: %w", err)
	}
	if doc.Estado == model.EstadoBorrador {
		// Emitir enqueues after the state flip; a borrador here means the
		// emission transaction rolled back. Drop the job.
		log.Warn().Str("documento_id", id.String()).Msg("documento_worker: documento still en borrador, skipping")
		return nil
	}

	path, err := infra.GenerateDocumentoPDF(doc, w.storagePath)
	if err != nil {
		return fmt.Errorf("documento_worker: render PDF: %w", err)
	}
	if err := w.repo.SetPDFPath(ctx, id, path); err != nil {
		return fmt.Errorf("documento_worker: store PDF path: %w", err)
	}

	log.Info().
		Str("documento_id", id.String()).
		Str("path", path).
		Msg("documento_worker: PDF generated")

	if doc.EnvioEstado == model.EnvioPendiente && doc.EnvioEmail != nil {
		emailPayload := EmailPayload{DocumentoID: id.String()}
		if err := w.dispatcher.EnqueueEmail(ctx, emailPayload); err != nil {
			return fmt.Errorf("documento_worker: enqueue email: %w", err)
		}
	}
	return nil
}
