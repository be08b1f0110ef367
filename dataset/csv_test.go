package dataset

import (
	"strings"
	"testing"
)

func TestReadCSVNumeric(t *testing.T) {
	in := `age,income,label
25,50000,0
32,64000,1
47,81000,1
`
	ds, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if ds.NumSamples() != 3 || ds.NumFeatures() != 2 {
		t.Fatalf("dims = (%d, %d), want (3, 2)", ds.NumSamples(), ds.NumFeatures())
	}
	if ds.LabelName != "label" {
		t.Errorf("LabelName = %q, want %q", ds.LabelName, "label")
	}
	if len(ds.FeatureNames) != 2 || ds.FeatureNames[0] != "age" || ds.FeatureNames[1] != "income" {
		t.Errorf("FeatureNames = %v", ds.FeatureNames)
	}
	if ds.X.At(1, 1) != 64000 {
		t.Errorf("X[1][1] = %v, want 64000", ds.X.At(1, 1))
	}
	if ds.Y.At(2, 0) != 1 {
		t.Errorf("Y[2] = %v, want 1", ds.Y.At(2, 0))
	}
	if len(ds.Encoders) != 0 {
		t.Errorf("numeric data should record no encoders, got %v", ds.Encoders)
	}
}

func TestReadCSVCategoricalEncoding(t *testing.T) {
	in := `group,score,label
male,1.5,0
female,2.5,1
male,3.5,1
`
	ds, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	enc, ok := ds.Encoders["group"]
	if !ok {
		t.Fatal("expected an encoder for the group column")
	}
	if enc["male"] != 0 || enc["female"] != 1 {
		t.Errorf("encoder = %v, want first-seen order male=0 female=1", enc)
	}
	if ds.X.At(0, 0) != 0 || ds.X.At(1, 0) != 1 || ds.X.At(2, 0) != 0 {
		t.Errorf("encoded column = (%v, %v, %v), want (0, 1, 0)",
			ds.X.At(0, 0), ds.X.At(1, 0), ds.X.At(2, 0))
	}
}

func TestReadCSVLabelSelection(t *testing.T) {
	in := `label,a,b
1,10,20
0,30,40
`
	t.Run("by name", func(t *testing.T) {
		ds, err := ReadCSV(strings.NewReader(in), WithLabelColumn("label"))
		if err != nil {
			t.Fatalf("ReadCSV failed: %v", err)
		}
		if ds.Y.At(0, 0) != 1 || ds.Y.At(1, 0) != 0 {
			t.Errorf("labels = (%v, %v), want (1, 0)", ds.Y.At(0, 0), ds.Y.At(1, 0))
		}
		if ds.X.At(0, 0) != 10 || ds.X.At(0, 1) != 20 {
			t.Errorf("first row = (%v, %v), want (10, 20)", ds.X.At(0, 0), ds.X.At(0, 1))
		}
	})

	t.Run("by index", func(t *testing.T) {
		ds, err := ReadCSV(strings.NewReader(in), WithLabelIndex(0))
		if err != nil {
			t.Fatalf("ReadCSV failed: %v", err)
		}
		if ds.Y.At(0, 0) != 1 {
			t.Errorf("Y[0] = %v, want 1", ds.Y.At(0, 0))
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		if _, err := ReadCSV(strings.NewReader(in), WithLabelColumn("nope")); err == nil {
			t.Error("expected error for unknown label column")
		}
	})
}

func TestReadCSVWithoutHeader(t *testing.T) {
	in := "1,2,0\n3,4,1\n"
	ds, err := ReadCSV(strings.NewReader(in), WithHeader(false))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if ds.NumSamples() != 2 || ds.NumFeatures() != 2 {
		t.Fatalf("dims = (%d, %d), want (2, 2)", ds.NumSamples(), ds.NumFeatures())
	}
	if ds.LabelName != "" || ds.FeatureNames != nil {
		t.Errorf("headerless data should carry no names, got %q %v", ds.LabelName, ds.FeatureNames)
	}
	if ds.Y.At(1, 0) != 1 {
		t.Errorf("Y[1] = %v, want 1", ds.Y.At(1, 0))
	}
}

func TestReadCSVSemicolonDelimiter(t *testing.T) {
	in := "a;b\n1;0\n2;1\n"
	ds, err := ReadCSV(strings.NewReader(in), WithComma(';'))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if ds.X.At(1, 0) != 2 {
		t.Errorf("X[1][0] = %v, want 2", ds.X.At(1, 0))
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts []CSVOption
	}{
		{"empty input", "", nil},
		{"header only", "a,b\n", nil},
		{"label name without header", "1,2\n", []CSVOption{WithHeader(false), WithLabelColumn("a")}},
		{"label index out of range", "a,b\n1,2\n", []CSVOption{WithLabelIndex(9)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.in), tt.opts...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
