package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"loan-feature-engine/internal/dataset"
	"loan-feature-engine/internal/features"
	"loan-feature-engine/internal/logger"
	"loan-feature-engine/internal/model"
)

const (
	codeMalformedContracts       = "MALFORMED_CONTRACTS"
	codeMalformedApplicationDate = "MALFORMED_APPLICATION_DATE"
)

type Options struct {
	// Workers bounds how many rows are calculated at once. Values below 1 mean 1.
	Workers int
	// Features lists output names to compute; empty means every registered feature.
	Features []string
	Logger   *logger.Logger
}

// Batch is the outcome of running the feature set over a list of rows.
// Results[i] belongs to rows[i].
type Batch struct {
	Features []string
	Results  []model.ClientResult
	Messages []model.CalculationMessage
	Outcome  string
}

// ProcessRows applies the feature set to every row. now is the reference for
// features measured against the batch clock; it is never read from the
// system inside the calculators.
func ProcessRows(ctx context.Context, rows []model.ClientRow, now time.Time, opts Options) (*Batch, error) {
	return process(ctx, rows, make([][]model.CalculationMessage, len(rows)), now, opts)
}

// Process converts a calculation request into rows, runs the feature set and
// wraps the result in the response envelope.
func Process(ctx context.Context, req *model.CalculationRequest, now time.Time, opts Options) (*model.CalculationResponse, error) {
	start := time.Now()

	rows := make([]model.ClientRow, len(req.Clients))
	inputMsgs := make([][]model.CalculationMessage, len(req.Clients))
	for i, c := range req.Clients {
		rows[i] = model.ClientRow{ID: c.ID, RawContracts: string(c.Contracts)}

		appDate, err := dataset.ConvertApplicationDate(c.ApplicationDate)
		if err != nil {
			inputMsgs[i] = append(inputMsgs[i], model.CalculationMessage{
				ClientID: c.ID,
				Level:    model.LevelWarning,
				Code:     codeMalformedApplicationDate,
				Message:  err.Error(),
			})
		}
		rows[i].ApplicationDate = appDate

		contracts, err := dataset.ConvertContractsJSON(c.Contracts)
		if err != nil {
			inputMsgs[i] = append(inputMsgs[i], model.CalculationMessage{
				ClientID: c.ID,
				Level:    model.LevelWarning,
				Code:     codeMalformedContracts,
				Message:  err.Error(),
			})
		}
		rows[i].Contracts = contracts
	}

	batch, err := process(ctx, rows, inputMsgs, now, opts)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	completed := time.Now().UTC()

	return &model.CalculationResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          uuid.New().String(),
			TenantID:               req.TenantID,
			ReferenceDate:          now.Format(time.RFC3339),
			CalculationStartedAt:   completed.Add(-elapsed).Format(time.RFC3339),
			CalculationCompletedAt: completed.Format(time.RFC3339),
			CalculationDurationMs:  elapsed.Milliseconds(),
			CalculationOutcome:     batch.Outcome,
		},
		CalculationResult: model.CalculationResult{
			Messages: batch.Messages,
			Clients:  batch.Results,
		},
	}, nil
}

func process(ctx context.Context, rows []model.ClientRow, perRow [][]model.CalculationMessage, now time.Time, opts Options) (*Batch, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	names := opts.Features
	if len(names) == 0 {
		names = features.Names()
	}

	batch := &Batch{Outcome: model.OutcomeSuccess}
	allMessages := []model.CalculationMessage{}

	var resolved []features.Feature
	for _, name := range names {
		f, ok := features.Get(name)
		if !ok {
			allMessages = append(allMessages, model.CalculationMessage{
				ID:      len(allMessages),
				Feature: name,
				Level:   model.LevelCritical,
				Code:    model.CodeUnknownFeature,
				Message: fmt.Sprintf("Unknown feature: %s", name),
			})
			continue
		}
		resolved = append(resolved, f)
		batch.Features = append(batch.Features, name)
	}

	results := make([]model.ClientResult, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := &rows[i]
			result := model.ClientResult{
				ClientID: row.ID,
				Features: make(map[string]model.FeatureValue, len(resolved)),
			}
			for _, f := range resolved {
				value, msgs := f.Calculate(row, now)
				result.Features[f.Name()] = value
				for _, m := range msgs {
					m.ClientID = row.ID
					m.Feature = f.Name()
					perRow[i] = append(perRow[i], m)
				}
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process rows: %w", err)
	}

	// Message ids follow row order so output is stable whatever the scheduling.
	for i := range results {
		for _, m := range perRow[i] {
			m.ID = len(allMessages)
			allMessages = append(allMessages, m)
			results[i].CalculationMessageIndexes = append(results[i].CalculationMessageIndexes, m.ID)
		}
	}

	for _, m := range allMessages {
		if m.Level == model.LevelCritical {
			batch.Outcome = model.OutcomeFailure
			log.Error(m.Message, "code", m.Code, "feature", m.Feature)
			continue
		}
		log.Warn(m.Message, "code", m.Code, "client_id", m.ClientID, "feature", m.Feature)
	}

	batch.Results = results
	batch.Messages = allMessages
	return batch, nil
}
