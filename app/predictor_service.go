package app

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"digitpad/domain/prediction"
	"digitpad/internal"
	"digitpad/internal/errors"
	"digitpad/ports"
)

// PredictorService runs predictions for sketch sessions.
type PredictorService struct {
	predictor ports.Predictor
	logger    *internal.Logger
}

// Outcome reports what happened to one predict request.
type Outcome struct {
	Seq    uint64
	Result prediction.Result
	// Applied is false when a newer request was dispatched while this one
	// was in flight; the table was left alone.
	Applied bool
	// Rows are the table rows rendered from Result, nil when not applied.
	Rows []prediction.Row
}

// NewPredictorService creates a predictor service
func NewPredictorService(predictor ports.Predictor, logger *internal.Logger) *PredictorService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PredictorService{
		predictor: predictor,
		logger:    logger.With("predict"),
	}
}

// Predict sends the session's drawing to the model and renders the scores
// into its table. The session stays usable while the request is in flight.
// On failure the table keeps its previous rows.
func (s *PredictorService) Predict(ctx context.Context, session *Session) (*Outcome, error) {
	ticket := session.seq.Next()
	s.logger.Info("predict called. session = %s seq = %d", session.ID, ticket)

	image, err := session.ModelInput()
	if err != nil {
		return nil, errors.Wrap(err, "failed to snapshot canvas")
	}

	start := time.Now()
	result, err := s.predictor.Predict(ctx, bytes.NewReader(image))
	if err != nil {
		s.logger.Warn("predict failed. session = %s seq = %d: %v", session.ID, ticket, err)
		return nil, err
	}
	s.logger.Debug("result = %v (%s)", []float64(result), time.Since(start))

	rows, applied, err := session.applyResult(ticket, result)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidResponse, fmt.Errorf("render result: %w", err))
	}
	if !applied {
		s.logger.Info("discarding stale result. session = %s seq = %d", session.ID, ticket)
	}

	return &Outcome{
		Seq:     ticket,
		Result:  result,
		Applied: applied,
		Rows:    rows,
	}, nil
}

// BatchInput is one drawing submitted through PredictBatch.
type BatchInput struct {
	Name  string
	Image []byte
}

// BatchOutcome pairs a batch input with its scores or error.
type BatchOutcome struct {
	Name   string
	Result prediction.Result
	Table  prediction.Table
	Err    error
}

// PredictBatch predicts every input with at most batchSize requests in
// flight. Outcomes are returned in input order; per-input failures are
// reported in BatchOutcome.Err.
func (s *PredictorService) PredictBatch(ctx context.Context, inputs []BatchInput, batchSize int64) ([]BatchOutcome, error) {
	if batchSize <= 0 {
		batchSize = 1
	}
	outcomes := make([]BatchOutcome, len(inputs))

	var cancelled error
	sem := semaphore.NewWeighted(batchSize)
	for i, in := range inputs {
		if err := sem.Acquire(ctx, 1); err != nil {
			cancelled = fmt.Errorf("batch cancelled after %d of %d inputs: %w", i, len(inputs), err)
			break
		}
		go func(i int, in BatchInput) {
			defer sem.Release(1)
			out := BatchOutcome{Name: in.Name}
			out.Result, out.Err = s.predictor.Predict(ctx, bytes.NewReader(in.Image))
			if out.Err == nil {
				out.Err = out.Table.Replace(out.Result)
			}
			if out.Err != nil {
				s.logger.Warn("predict %s failed: %v", in.Name, out.Err)
			}
			outcomes[i] = out
		}(i, in)
	}

	// Wait for all goroutines to finish
	if err := sem.Acquire(context.Background(), batchSize); err != nil {
		return nil, err
	}
	if cancelled != nil {
		return nil, cancelled
	}
	return outcomes, nil
}
