package sink

import (
	"context"

	"loan-feature-engine/internal/model"
)

// Sink persists computed features. results[i] belongs to rows[i] and
// featureNames fixes the column order.
type Sink interface {
	Write(ctx context.Context, rows []model.ClientRow, results []model.ClientResult, featureNames []string) error
	Close() error
}
