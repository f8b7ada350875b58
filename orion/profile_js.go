package orion

import "log/slog"

func startProfiling() (stop func()) {
	slog.Warn("Profiling is not supported in the browser")
	return func() {}
}
