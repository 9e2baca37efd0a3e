package engine

import (
	"fmt"
	"os"

	"binscope/internal/analysis"
)

// TargetLoader populates the load outcome for one target on a fresh
// per-target context. The engine branches on the context's load-error and
// validity signals only, never on loader internals.
type TargetLoader func(ctx *analysis.AnalysisContext)

// defaultLoader probes the file on disk: an unopenable path is a load
// failure; an empty or irregular file loads but is not a recognized analysis
// target.
func defaultLoader(ctx *analysis.AnalysisContext) {
	f, err := os.Open(ctx.TargetURI)
	if err != nil {
		ctx.TargetLoadError = fmt.Errorf("failed to load target: %w", err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		ctx.TargetLoadError = fmt.Errorf("failed to stat target: %w", err)
		return
	}

	ctx.TargetValid = info.Mode().IsRegular() && info.Size() > 0
}
