package webhook

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/blackcheck/black-check-api/internal/logger"
	"github.com/blackcheck/black-check-api/internal/metrics"
	"github.com/blackcheck/black-check-api/internal/store"
)

// Result summarizes what one notification wrote
type Result struct {
	Kind       Kind   `json:"kind"`
	Type       string `json:"type"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
}

// Ingestor records webhook notifications in the transfer store
type Ingestor interface {
	// Ingest writes every transfer of the notification and its audit record.
	// Duplicates and unconvertible items are not errors.
	Ingest(ctx context.Context, n *Notification) (*Result, error)
}

type ingestor struct {
	store store.Store
}

// NewIngestor creates a new webhook ingestor
func NewIngestor(s store.Store) Ingestor {
	return &ingestor{store: s}
}

func (i *ingestor) Ingest(ctx context.Context, n *Notification) (*Result, error) {
	result := &Result{Kind: n.Kind, Type: n.Type()}

	if n.Type() == TypeNFTActivity {
		i.ingestTransfers(ctx, n, result)
	} else {
		logger.InfoCtx(ctx, "Unhandled webhook type",
			zap.String("type", n.Type()),
			zap.String("id", n.Payload.ID))
	}

	i.storeAuditRecord(ctx, n)

	logger.InfoCtx(ctx, "Processed webhook notification",
		zap.String("kind", string(result.Kind)),
		zap.String("type", result.Type),
		zap.Int("inserted", result.Inserted),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))

	// All attempted writes failed: ask the provider to redeliver
	if result.Failed > 0 && result.Inserted == 0 && result.Duplicates == 0 {
		metrics.WebhookNotifications.WithLabelValues(string(n.Kind), metrics.OutcomeError).Inc()
		return result, ErrStoreUnavailable
	}

	metrics.WebhookNotifications.WithLabelValues(string(n.Kind), metrics.OutcomeSuccess).Inc()
	return result, nil
}

func (i *ingestor) ingestTransfers(ctx context.Context, n *Notification, result *Result) {
	events, skipped := n.Transfers()

	for _, s := range skipped {
		logger.WarnCtx(ctx, "Skipping webhook activity item",
			zap.Int("index", s.Index),
			zap.String("reason", s.Reason))
	}
	result.Skipped = len(skipped)
	metrics.WebhookTransfers.WithLabelValues(metrics.OutcomeSkipped).Add(float64(len(skipped)))

	for _, e := range events {
		inserted, err := i.store.InsertTransfer(ctx, e)
		switch {
		case err != nil:
			if errors.Is(err, context.Canceled) {
				logger.WarnCtx(ctx, "Webhook ingestion canceled", zap.String("id", e.ID))
			} else {
				logger.ErrorCtx(ctx, err, zap.String("id", e.ID))
			}
			result.Failed++
			metrics.WebhookTransfers.WithLabelValues(metrics.OutcomeError).Inc()
		case !inserted:
			logger.DebugCtx(ctx, "Transfer already recorded", zap.String("id", e.ID))
			result.Duplicates++
			metrics.WebhookTransfers.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		default:
			result.Inserted++
			metrics.WebhookTransfers.WithLabelValues(metrics.OutcomeInserted).Inc()
		}
	}
}

// storeAuditRecord never fails the notification
func (i *ingestor) storeAuditRecord(ctx context.Context, n *Notification) {
	record := n.AuditRecord()
	if _, err := i.store.InsertTransfer(ctx, record); err != nil {
		logger.WarnCtx(ctx, "Failed to store webhook audit record",
			zap.String("id", record.ID),
			zap.Error(err))
	}
}
