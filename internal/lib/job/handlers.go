package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// DocumentResolver resolves a bulk upload document against the catalogs and
// generates its agreements. The service layer implements it; declaring the
// interface here keeps job free of a service import.
type DocumentResolver interface {
	ResolveDocumentForJob(ctx context.Context, documentID int64, requestedBy string) error
}

// NewMux routes task types to their handlers.
func NewMux(logger *zerolog.Logger, resolver DocumentResolver) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskResolveDocument, handleResolveDocumentTask(logger, resolver))
	return mux
}

func handleResolveDocumentTask(logger *zerolog.Logger, resolver DocumentResolver) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p ResolveDocumentPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("failed to unmarshal resolve document payload: %w", err)
		}

		logger.Info().
			Str("type", TaskResolveDocument).
			Int64("document_id", p.DocumentID).
			Str("requested_by", p.RequestedBy).
			Msg("Processing document resolution task")

		if err := resolver.ResolveDocumentForJob(ctx, p.DocumentID, p.RequestedBy); err != nil {
			logger.Error().
				Str("type", TaskResolveDocument).
				Int64("document_id", p.DocumentID).
				Err(err).
				Msg("Failed to resolve document")
			return err
		}

		logger.Info().
			Str("type", TaskResolveDocument).
			Int64("document_id", p.DocumentID).
			Msg("Successfully resolved document")

		return nil
	}
}
