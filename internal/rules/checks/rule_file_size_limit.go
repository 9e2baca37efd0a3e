package checks

import (
	"fmt"
	"os"
	"strconv"

	"binscope/internal/analysis"
	"binscope/internal/rules"
)

// PolicyKeyMaxBytes is the policy bag key that enables the file-size-limit
// rule. Without it (and without a --set override) the rule reports that it
// cannot run on any target.
const PolicyKeyMaxBytes = "file-size-limit.maxBytes"

type FileSizeLimitRule struct {
	// maxBytesOverride is set via Configure; it takes precedence over policy.
	maxBytesOverride *int64
}

func (r *FileSizeLimitRule) ID() string {
	return "file-size-limit"
}

func (r *FileSizeLimitRule) Name() string {
	return "File Size Within Limit"
}

func (r *FileSizeLimitRule) Description() string {
	return "Verifies that the target does not exceed the configured maximum size. The limit comes from the policy bag (file-size-limit.maxBytes) or a --set override."
}

func (r *FileSizeLimitRule) Options() []analysis.Option {
	return []analysis.Option{
		{
			Name:        "max_bytes",
			Description: "Maximum allowed target size in bytes",
			Default:     "",
		},
	}
}

func (r *FileSizeLimitRule) Configure(opts map[string]string) error {
	raw, ok := opts["max_bytes"]
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid max_bytes value %q: %w", raw, err)
	}
	if v <= 0 {
		return fmt.Errorf("max_bytes must be > 0, got %d", v)
	}
	r.maxBytesOverride = &v
	return nil
}

func (r *FileSizeLimitRule) Initialize(ctx *analysis.AnalysisContext) error {
	return nil
}

func (r *FileSizeLimitRule) limit(ctx *analysis.AnalysisContext) (int64, bool) {
	if r.maxBytesOverride != nil {
		return *r.maxBytesOverride, true
	}
	if v, ok := ctx.Policy.GetInt(PolicyKeyMaxBytes); ok && v > 0 {
		return v, true
	}
	return 0, false
}

func (r *FileSizeLimitRule) CanAnalyze(ctx *analysis.AnalysisContext) (analysis.Applicability, string, error) {
	if _, ok := r.limit(ctx); !ok {
		return analysis.NotApplicableWithoutPolicy,
			fmt.Sprintf("no size limit configured (set policy key %s or --set %s.max_bytes=N)", PolicyKeyMaxBytes, r.ID()), nil
	}
	return analysis.ApplicableToTarget, "", nil
}

func (r *FileSizeLimitRule) Analyze(ctx *analysis.AnalysisContext) error {
	max, ok := r.limit(ctx)
	if !ok {
		return fmt.Errorf("size limit vanished between CanAnalyze and Analyze")
	}

	info, err := os.Stat(ctx.TargetURI)
	if err != nil {
		return fmt.Errorf("failed to stat target: %w", err)
	}

	if info.Size() > max {
		return ctx.Log(analysis.KindError,
			fmt.Sprintf("Target is %d bytes, exceeding the configured limit of %d bytes.", info.Size(), max))
	}
	return ctx.Log(analysis.KindPass,
		fmt.Sprintf("Target is %d bytes, within the configured limit of %d bytes.", info.Size(), max))
}

func init() {
	rules.Register(&FileSizeLimitRule{})
}
