// Package fairgo is a Go toolkit for training, auditing and correcting
// binary classifiers for group fairness on tabular data.
//
// The library is organized around the standard estimator contract: models
// and transformers expose Fit, Predict/Transform and Score methods over
// gonum matrices, and compose into the workflows the packages below cover.
//
//   - dataset: CSV loading with categorical label-encoding, train/test
//     splitting and shuffling.
//   - preprocessing: feature standardization.
//   - linear: a binary logistic-regression classifier trained by gradient
//     descent.
//   - metrics: accuracy, confusion counts, precision/recall, ROC AUC and
//     log loss.
//   - fairness: the equal-opportunity audit (DEO) and the Uncorrelator, a
//     closed-form transform that removes the correlation between a
//     sensitive feature and the remaining features.
//   - batch: CSV-to-CSV batch inference with column filtering and
//     input/prediction joining.
//   - tuning: cross-validated random and grid hyperparameter search with
//     linear- and log-scaled ranges.
//
// A minimal fairness workflow:
//
//	ds, err := dataset.LoadCSV("applicants.csv", dataset.WithLabelColumn("hired"))
//	if err != nil {
//	    return err
//	}
//
//	clf := linear.NewClassifier()
//	if err := clf.Fit(ds.X, ds.Y); err != nil {
//	    return err
//	}
//
//	unc := fairness.NewUncorrelator(0, 0)
//	fairX, err := unc.FitTransform(ds.X, ds.Y)
//	if err != nil {
//	    return err
//	}
//
//	corrected := linear.NewClassifier()
//	if err := corrected.Fit(fairX, ds.Y); err != nil {
//	    return err
//	}
//
// Conditions a caller can proceed past, such as transforming with an
// unfitted Uncorrelator or computing an undefined group rate, are surfaced
// as warnings through pkg/errors rather than failing; see
// errors.SetWarningHandler.
package fairgo
