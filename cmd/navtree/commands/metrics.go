package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/navtree/internal/logfields"
	"git.home.luguber.info/inful/navtree/internal/metrics"
)

// buildRecorder is the recorder used by CLI builds. It is a no-op unless a
// metrics textfile was requested.
type buildRecorder struct {
	metrics.Recorder
	prom *metrics.PrometheusRecorder
	file string
}

func newRecorder(file string) *buildRecorder {
	if file == "" {
		return &buildRecorder{Recorder: metrics.NoopRecorder{}}
	}
	prom := metrics.NewPrometheusRecorder(nil)
	return &buildRecorder{Recorder: prom, prom: prom, file: file}
}

// flush writes the textfile, if any.
func (r *buildRecorder) flush(logger *slog.Logger) error {
	if r.prom == nil {
		return nil
	}
	if err := r.prom.WriteTextfile(r.file); err != nil {
		return err
	}
	logger.Debug("Wrote metrics textfile", logfields.Path(r.file))
	return nil
}
