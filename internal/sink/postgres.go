package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"loan-feature-engine/internal/model"
)

const createClientFeatures = `
CREATE TABLE IF NOT EXISTS client_features (
	client_id     BIGINT           NOT NULL,
	feature       TEXT             NOT NULL,
	value         DOUBLE PRECISION NOT NULL,
	calculated_at TIMESTAMPTZ      NOT NULL,
	PRIMARY KEY (client_id, feature)
)`

const upsertClientFeature = `
INSERT INTO client_features (client_id, feature, value, calculated_at)
VALUES (:client_id, :feature, :value, :calculated_at)
ON CONFLICT (client_id, feature)
DO UPDATE SET value = EXCLUDED.value, calculated_at = EXCLUDED.calculated_at`

type featureRow struct {
	ClientID     int64     `db:"client_id"`
	Feature      string    `db:"feature"`
	Value        float64   `db:"value"`
	CalculatedAt time.Time `db:"calculated_at"`
}

// PostgresSink upserts one row per (client, feature) into client_features.
type PostgresSink struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewPostgres(ctx context.Context, dsn string) (*PostgresSink, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createClientFeatures); err != nil {
		db.Close()
		return nil, fmt.Errorf("create client_features: %w", err)
	}
	return &PostgresSink{db: db, now: time.Now}, nil
}

func (s *PostgresSink) Write(ctx context.Context, _ []model.ClientRow, results []model.ClientResult, featureNames []string) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, r := range featureRows(results, featureNames, s.now().UTC()) {
		if _, err = tx.NamedExecContext(ctx, upsertClientFeature, r); err != nil {
			return fmt.Errorf("upsert feature %s for client %d: %w", r.Feature, r.ClientID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *PostgresSink) Close() error {
	return s.db.Close()
}

func featureRows(results []model.ClientResult, featureNames []string, at time.Time) []featureRow {
	out := make([]featureRow, 0, len(results)*len(featureNames))
	for _, r := range results {
		for _, name := range featureNames {
			v, ok := r.Features[name]
			if !ok {
				continue
			}
			out = append(out, featureRow{
				ClientID:     r.ClientID,
				Feature:      name,
				Value:        float64(v),
				CalculatedAt: at,
			})
		}
	}
	return out
}
