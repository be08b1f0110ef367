// Package batch runs a fitted predictor over CSV input and writes the
// predictions joined back to the input records, mirroring the batch-
// transform workflow of hosted ML platforms: filter the input columns fed
// to the model, predict, and join predictions to the source rows.
package batch

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/fairgo-ml/fairgo/core/model"
	"github.com/fairgo-ml/fairgo/core/parallel"
	"github.com/fairgo-ml/fairgo/pkg/errors"
	"github.com/fairgo-ml/fairgo/pkg/log"
)

// ProbaPredictor is satisfied by predictors that can also emit class
// probabilities, such as *linear.Classifier.
type ProbaPredictor interface {
	model.Predictor
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// Transformer applies a fitted predictor to CSV input, chunk by chunk and
// CPU-parallel across chunks, and joins the predictions to the input rows.
// Run blocks until the whole input is processed, the context is canceled,
// or an error occurs.
type Transformer struct {
	predictor model.Predictor

	hasHeader   bool
	chunkSize   int
	inputFilter []int // column indices fed to the model; nil means all
	joinInput   bool  // emit input record columns before the prediction
	emitProba   bool  // also emit the positive-class probability

	logger log.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithHeader declares whether the input has a header row. Default: true.
func WithHeader(has bool) Option {
	return func(t *Transformer) {
		t.hasHeader = has
	}
}

// WithChunkSize sets the number of rows predicted per chunk. Default: 1024.
func WithChunkSize(n int) Option {
	return func(t *Transformer) {
		t.chunkSize = n
	}
}

// WithInputFilter selects which input columns are fed to the model, in
// order. Without a filter all columns are used. This is how a model trained
// on uncorrelated features is applied to raw records that still carry the
// sensitive column.
func WithInputFilter(columns []int) Option {
	return func(t *Transformer) {
		t.inputFilter = columns
	}
}

// WithJoinInput controls whether output rows repeat the input record before
// the prediction columns. Default: true.
func WithJoinInput(join bool) Option {
	return func(t *Transformer) {
		t.joinInput = join
	}
}

// WithProbability also emits the positive-class probability when the
// predictor supports PredictProba.
func WithProbability(emit bool) Option {
	return func(t *Transformer) {
		t.emitProba = emit
	}
}

// NewTransformer creates a batch Transformer around a fitted predictor.
func NewTransformer(predictor model.Predictor, opts ...Option) *Transformer {
	t := &Transformer{
		predictor: predictor,
		hasHeader: true,
		chunkSize: 1024,
		joinInput: true,
		logger:    log.GetLoggerWithName("batch"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run reads CSV records from r, predicts, and writes joined CSV output to
// w. Panics raised by the predictor are recovered into errors.
func (t *Transformer) Run(ctx context.Context, r io.Reader, w io.Writer) (err error) {
	defer errors.Recover(&err, "batch.Transformer.Run")

	start := time.Now()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return errors.Wrap(err, "batch: failed to read input")
	}
	if len(records) == 0 {
		return errors.NewModelError("batch.Transformer.Run", "empty input", errors.ErrEmptyData)
	}

	var header []string
	rows := records
	if t.hasHeader {
		header = records[0]
		rows = records[1:]
	}
	if len(rows) == 0 {
		return errors.NewModelError("batch.Transformer.Run", "no data rows", errors.ErrEmptyData)
	}

	filter := t.inputFilter
	if filter == nil {
		filter = make([]int, len(rows[0]))
		for j := range filter {
			filter[j] = j
		}
	}
	for _, j := range filter {
		if j < 0 || j >= len(rows[0]) {
			return errors.NewDimensionError("batch.Transformer.Run", len(rows[0]), j, 1)
		}
	}

	nRows := len(rows)
	labels := make([]float64, nRows)
	probas := make([]float64, nRows)

	nChunks := (nRows + t.chunkSize - 1) / t.chunkSize

	// Each worker recovers its own panics; a panic on a worker goroutine
	// would otherwise bypass the deferred Recover above and kill the process.
	err = parallel.ParallelizeContext(ctx, nChunks, func(ctx context.Context, startChunk, endChunk int) (chunkErr error) {
		defer errors.Recover(&chunkErr, "batch.Transformer.Run")
		for chunk := startChunk; chunk < endChunk; chunk++ {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(errors.ErrCanceled, err.Error())
			}

			lo := chunk * t.chunkSize
			hi := lo + t.chunkSize
			if hi > nRows {
				hi = nRows
			}

			X, err := t.parseChunk(rows, lo, hi, filter)
			if err != nil {
				return err
			}

			preds, err := t.predictor.Predict(X)
			if err != nil {
				return errors.Wrapf(err, "batch: chunk %d", chunk)
			}
			for i := lo; i < hi; i++ {
				labels[i] = preds.At(i-lo, 0)
			}

			if t.emitProba {
				pp, ok := t.predictor.(ProbaPredictor)
				if !ok {
					return errors.NewValueError("batch.Transformer.Run", "predictor does not support probabilities")
				}
				prob, err := pp.PredictProba(X)
				if err != nil {
					return errors.Wrapf(err, "batch: chunk %d probabilities", chunk)
				}
				_, pc := prob.Dims()
				for i := lo; i < hi; i++ {
					probas[i] = prob.At(i-lo, pc-1)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := t.writeOutput(w, header, rows, labels, probas); err != nil {
		return err
	}

	t.logger.Info("batch transform complete",
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, nRows,
		log.BatchSizeKey, t.chunkSize,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return nil
}

// parseChunk builds the model input matrix for rows[lo:hi] restricted to
// the filtered columns.
func (t *Transformer) parseChunk(rows [][]string, lo, hi int, filter []int) (*mat.Dense, error) {
	X := mat.NewDense(hi-lo, len(filter), nil)
	for i := lo; i < hi; i++ {
		if len(rows[i]) != len(rows[0]) {
			return nil, errors.NewDimensionError("batch.parseChunk", len(rows[0]), len(rows[i]), 1)
		}
		for k, j := range filter {
			v, err := strconv.ParseFloat(rows[i][j], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "batch: row %d column %d", i, j)
			}
			X.Set(i-lo, k, v)
		}
	}
	return X, nil
}

func (t *Transformer) writeOutput(w io.Writer, header []string, rows [][]string, labels, probas []float64) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if header != nil {
		out := make([]string, 0, len(header)+2)
		if t.joinInput {
			out = append(out, header...)
		}
		out = append(out, "prediction")
		if t.emitProba {
			out = append(out, "probability")
		}
		if err := writer.Write(out); err != nil {
			return errors.Wrap(err, "batch: failed to write header")
		}
	}

	for i, rec := range rows {
		out := make([]string, 0, len(rec)+2)
		if t.joinInput {
			out = append(out, rec...)
		}
		out = append(out, strconv.FormatFloat(labels[i], 'g', -1, 64))
		if t.emitProba {
			out = append(out, strconv.FormatFloat(probas[i], 'f', 6, 64))
		}
		if err := writer.Write(out); err != nil {
			return errors.Wrapf(err, "batch: failed to write row %d", i)
		}
	}

	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "batch: flush failed")
	}
	return nil
}
