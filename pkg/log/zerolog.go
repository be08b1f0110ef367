package log

import (
	"io"

	"github.com/rs/zerolog"

	fgerrors "github.com/fairgo-ml/fairgo/pkg/errors"
)

// InstallZerologWarnings routes warnings raised through pkg/errors to a
// zerolog logger writing to w. Warning types implementing
// zerolog.LogObjectMarshaler (NotFittedWarning, UndefinedMetricWarning,
// ConvergenceWarning) are emitted as structured objects; anything else is
// logged by its Error string.
func InstallZerologWarnings(w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	fgerrors.SetZerologWarnFunc(func(warning error) {
		ev := logger.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev.EmbedObject(obj).Msg("fairgo warning")
			return
		}
		ev.Str("warning", warning.Error()).Msg("fairgo warning")
	})
	return logger
}

// ResetWarnings detaches the zerolog warning sink, restoring the handler
// registered with errors.SetWarningHandler.
func ResetWarnings() {
	fgerrors.SetZerologWarnFunc(nil)
}
