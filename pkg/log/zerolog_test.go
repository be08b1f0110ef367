package log

import (
	"bytes"
	"encoding/json"
	"testing"

	fgerrors "github.com/fairgo-ml/fairgo/pkg/errors"
)

func TestInstallZerologWarnings(t *testing.T) {
	var buf bytes.Buffer
	InstallZerologWarnings(&buf)
	t.Cleanup(ResetWarnings)

	fgerrors.Warn(fgerrors.NewUndefinedMetricWarning("recall", "no true positives", 0))

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["level"] != "warn" {
		t.Errorf("level = %v, want warn", record["level"])
	}
	if record["metric"] != "recall" || record["type"] != "UndefinedMetricWarning" {
		t.Errorf("record = %v, want structured warning fields", record)
	}
}

func TestInstallZerologWarningsPlainError(t *testing.T) {
	var buf bytes.Buffer
	InstallZerologWarnings(&buf)
	t.Cleanup(ResetWarnings)

	fgerrors.Warn(fgerrors.New("ad hoc warning"))

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["warning"] != "ad hoc warning" {
		t.Errorf("record = %v", record)
	}
}

func TestResetWarningsRestoresHandler(t *testing.T) {
	var buf bytes.Buffer
	InstallZerologWarnings(&buf)

	var handled int
	fgerrors.SetWarningHandler(func(w error) { handled++ })
	t.Cleanup(func() { fgerrors.SetWarningHandler(nil) })

	ResetWarnings()
	fgerrors.Warn(fgerrors.New("after reset"))

	if handled != 1 {
		t.Errorf("handler calls = %d, want 1 after ResetWarnings", handled)
	}
	if buf.Len() != 0 {
		t.Errorf("zerolog sink received output after reset: %s", buf.String())
	}
}
