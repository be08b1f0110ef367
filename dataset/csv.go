package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/fairgo-ml/fairgo/pkg/errors"
	"github.com/fairgo-ml/fairgo/pkg/log"
)

// CSVOption configures CSV loading.
type CSVOption func(*csvConfig)

type csvConfig struct {
	hasHeader  bool
	labelName  string
	labelIndex int // used when labelName is empty; -1 means last column
	comma      rune
}

// WithHeader declares whether the first row contains column names.
// Default: true.
func WithHeader(has bool) CSVOption {
	return func(c *csvConfig) {
		c.hasHeader = has
	}
}

// WithLabelColumn selects the label column by name. Requires a header.
func WithLabelColumn(name string) CSVOption {
	return func(c *csvConfig) {
		c.labelName = name
	}
}

// WithLabelIndex selects the label column by position. Default is the last
// column.
func WithLabelIndex(index int) CSVOption {
	return func(c *csvConfig) {
		c.labelIndex = index
		c.labelName = ""
	}
}

// WithComma sets the field delimiter. Default ','.
func WithComma(comma rune) CSVOption {
	return func(c *csvConfig) {
		c.comma = comma
	}
}

// LoadCSV reads a CSV file into a Dataset. See ReadCSV.
func LoadCSV(path string, opts ...CSVOption) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()
	return ReadCSV(file, opts...)
}

// ReadCSV reads CSV data into a Dataset. Numeric columns are parsed as
// float64; columns containing any non-numeric value are label-encoded in
// first-seen order and the encoding is recorded in Dataset.Encoders. The
// label column defaults to the last column and can be selected by name or
// index.
func ReadCSV(r io.Reader, opts ...CSVOption) (*Dataset, error) {
	cfg := &csvConfig{
		hasHeader:  true,
		labelIndex: -1,
		comma:      ',',
	}
	for _, opt := range opts {
		opt(cfg)
	}

	reader := csv.NewReader(r)
	reader.Comma = cfg.comma
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv")
	}
	if len(records) == 0 {
		return nil, errors.NewModelError("dataset.ReadCSV", "empty input", errors.ErrEmptyData)
	}

	var header []string
	rows := records
	if cfg.hasHeader {
		header = records[0]
		rows = records[1:]
		if len(rows) == 0 {
			return nil, errors.NewModelError("dataset.ReadCSV", "header but no data rows", errors.ErrEmptyData)
		}
	}

	nCols := len(rows[0])
	if nCols < 2 {
		return nil, errors.NewValueError("dataset.ReadCSV", "need at least one feature column and a label column")
	}
	for _, rec := range rows {
		if len(rec) != nCols {
			return nil, errors.NewDimensionError("dataset.ReadCSV", nCols, len(rec), 1)
		}
	}

	labelIdx, err := resolveLabelIndex(cfg, header, nCols)
	if err != nil {
		return nil, err
	}

	// Detect categorical columns: any cell that does not parse as a float
	// makes its whole column categorical.
	categorical := make([]bool, nCols)
	for j := 0; j < nCols; j++ {
		for _, rec := range rows {
			cell := strings.TrimSpace(rec[j])
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				categorical[j] = true
				break
			}
		}
	}

	encoders := make(map[string]map[string]float64)
	columnName := func(j int) string {
		if header != nil {
			return header[j]
		}
		return "col" + strconv.Itoa(j)
	}

	encode := func(j int, cell string) float64 {
		name := columnName(j)
		enc, ok := encoders[name]
		if !ok {
			enc = make(map[string]float64)
			encoders[name] = enc
		}
		v, ok := enc[cell]
		if !ok {
			v = float64(len(enc))
			enc[cell] = v
		}
		return v
	}

	nRows := len(rows)
	X := mat.NewDense(nRows, nCols-1, nil)
	Y := mat.NewDense(nRows, 1, nil)

	for i, rec := range rows {
		xj := 0
		for j := 0; j < nCols; j++ {
			cell := strings.TrimSpace(rec[j])
			var v float64
			if categorical[j] {
				v = encode(j, cell)
			} else {
				v, err = strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, errors.Wrapf(err, "row %d column %d", i, j)
				}
			}
			if j == labelIdx {
				Y.Set(i, 0, v)
				continue
			}
			X.Set(i, xj, v)
			xj++
		}
	}

	ds := &Dataset{
		X:        X,
		Y:        Y,
		Encoders: encoders,
	}
	if header != nil {
		ds.LabelName = header[labelIdx]
		ds.FeatureNames = make([]string, 0, nCols-1)
		for j, name := range header {
			if j != labelIdx {
				ds.FeatureNames = append(ds.FeatureNames, name)
			}
		}
	}

	log.GetLoggerWithName("dataset").Debug("csv loaded",
		log.SamplesKey, nRows,
		log.FeaturesKey, nCols-1,
	)

	return ds, nil
}

func resolveLabelIndex(cfg *csvConfig, header []string, nCols int) (int, error) {
	if cfg.labelName != "" {
		if header == nil {
			return 0, errors.NewValidationError("labelColumn", "requires a header row", cfg.labelName)
		}
		for j, name := range header {
			if name == cfg.labelName {
				return j, nil
			}
		}
		return 0, errors.NewValueError("dataset.ReadCSV", "label column not found: "+cfg.labelName)
	}
	idx := cfg.labelIndex
	if idx < 0 {
		idx = nCols - 1
	}
	if idx >= nCols {
		return 0, errors.NewDimensionError("dataset.ReadCSV", nCols, idx, 1)
	}
	return idx, nil
}
