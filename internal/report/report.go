// Package report surfaces load and query outcomes through the process
// logger.
package report

import (
	"log/slog"
	"time"

	"flightdata/internal/batch"
)

// LoadSummary emits the end-of-load message: a pointer at the error files
// when any row or file was rejected, a clean completion note otherwise.
func LoadSummary(log *slog.Logger, hadErrors bool, resultsDir string) {
	if hadErrors {
		log.Warn("some rows were rejected; check the *_errors.csv files", "dir", resultsDir)
		return
	}
	log.Info("all datasets processed successfully")
}

// QueryStats returns a batch stats callback that logs each command's
// elapsed time.
func QueryStats(log *slog.Logger) batch.StatsFunc {
	return func(queryID, line int, elapsed time.Duration) {
		log.Debug("query executed", "query", queryID, "line", line,
			"elapsed", elapsed.Round(time.Microsecond))
	}
}
