//go:build !js

package orion

import (
	"log/slog"

	"github.com/pkg/profile"
)

func startProfiling() (stop func()) {
	slog.Info("Writing cpu profile")

	prof := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	return prof.Stop
}
