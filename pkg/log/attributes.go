package log

// Standard attribute keys for fairgo operations. Using these keys keeps
// records from training, auditing, batch inference and tuning filterable by
// the same fields. Keys follow a hierarchical naming convention
// ("model.name", "data.samples", "fairness.deo").

// Model and operation context.
const (
	// ModelNameKey identifies the model or transformer type.
	// Examples: "Classifier", "Uncorrelator"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "fit_transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package or component emitting the record.
	// Examples: "linear", "fairness", "batch", "tuning"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the workflow.
	// Examples: "training", "audit", "inference", "search"
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	// SamplesKey is the number of samples (rows) processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (columns) processed.
	FeaturesKey = "data.features"

	// BatchSizeKey is the chunk size used by the batch transformer.
	BatchSizeKey = "data.batch_size"
)

// Fairness context.
const (
	// SensitiveIndexKey is the column index of the sensitive feature.
	SensitiveIndexKey = "fairness.sensitive_index"

	// GroupASizeKey is the number of positively-labeled group-A examples.
	GroupASizeKey = "fairness.group_a_positives"

	// GroupBSizeKey is the number of positively-labeled group-B examples.
	GroupBSizeKey = "fairness.group_b_positives"

	// DEOKey is the difference in equal opportunity between the groups.
	DEOKey = "fairness.deo"
)

// Performance and metrics.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy, range [0, 1].
	AccuracyKey = "metrics.accuracy"

	// LossKey records a loss value during training or tuning.
	LossKey = "metrics.loss"

	// IterationKey records the iteration of an iterative algorithm.
	IterationKey = "training.iteration"

	// CandidateKey records the index of a tuning candidate.
	CandidateKey = "tuning.candidate"

	// FoldKey records the index of a cross-validation fold.
	FoldKey = "tuning.fold"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"

	PhaseTraining  = "training"
	PhaseAudit     = "audit"
	PhaseInference = "inference"
	PhaseSearch    = "search"
)
