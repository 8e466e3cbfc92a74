package extraction

import (
	"context"

	"github.com/RyanBlaney/sonido-features/logging"
	"golang.org/x/sync/errgroup"
)

// Loader produces the sample buffer of one row, typically by decoding a file
type Loader func(ctx context.Context) (*SampleBuffer, error)

// Row is one input of a batch
type Row struct {
	ID   string
	Load Loader
}

// RowResult is the output of one row. A row that failed has Err set and
// every cell missing.
type RowResult struct {
	ID     string
	Result *Result
	Cells  []Cell
	Err    error
}

// Batch runs a pipeline over many rows with a bounded number of workers
type Batch struct {
	pipeline *Pipeline
	workers  int
}

// NewBatch creates a batch runner; workers below 1 means one worker
func NewBatch(pipeline *Pipeline, workers int) *Batch {
	return &Batch{pipeline: pipeline, workers: max(1, workers)}
}

// Run processes rows and returns their results in input order. Row failures
// are logged and recorded in the row's result without stopping the batch.
// Cancellation is observed between rows and returned as the error; rows not
// started by then have only their ID set.
func (b *Batch) Run(ctx context.Context, rows []Row) ([]RowResult, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "extraction_batch",
		"function":  "Run",
	})

	results := make([]RowResult, len(rows))
	for i, row := range rows {
		results[i].ID = row.ID
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, row := range rows {
		if gctx.Err() != nil {
			break
		}
		i, row := i, row
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.runRow(gctx, row, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	logger.Info("Batch completed", logging.Fields{
		"rows":    len(rows),
		"workers": b.workers,
	})
	return results, nil
}

func (b *Batch) runRow(ctx context.Context, row Row, logger logging.Logger) RowResult {
	out := RowResult{ID: row.ID}

	buffer, err := row.Load(ctx)
	if err == nil {
		out.Result, err = b.pipeline.Run(buffer)
	}
	if err != nil {
		logger.Error(err, "Row failed, emitting missing values", logging.Fields{"row": row.ID})
		out.Err = err
		out.Cells = b.pipeline.Layout().MissingRow()
		return out
	}

	out.Cells = b.pipeline.Layout().Cells(out.Result)
	return out
}
