package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for every gate outcome, checkable with errors.Is.
// Security findings never surface as a run-level failure; they only exist
// so best-effort stage results stay inspectable.

// ErrFormattingViolation is returned when the source tree deviates from
// canonical formatting.
var ErrFormattingViolation = errors.New("formatting violation")

// ErrLintPolicyViolation is returned when the linter fails or the reported
// issue count breaches the configured threshold.
var ErrLintPolicyViolation = errors.New("lint policy violation")

// ErrTypeCheck is returned when static type analysis reports violations.
var ErrTypeCheck = errors.New("type check failed")

// ErrSecurityFindings is returned by the security stage when a scanner
// reports findings or fails to run. The stage is best-effort, so this never
// changes the pipeline outcome.
var ErrSecurityFindings = errors.New("security findings")

// ErrBuildDescriptorMissing is returned when the source tree carries no
// recognized build descriptor and nothing can be built.
var ErrBuildDescriptorMissing = errors.New("no recognized build descriptor")

// ErrBuildFailed is returned when the build tool itself fails.
var ErrBuildFailed = errors.New("build failed")

// ErrSmokeTest is returned when the built artifact cannot be installed and
// probed in an isolated environment.
var ErrSmokeTest = errors.New("smoke test failed")

// ErrUnitTest is returned when the test suite fails.
var ErrUnitTest = errors.New("unit tests failed")

// ErrCoverage is returned when instrumented test execution or report
// rendering fails.
var ErrCoverage = errors.New("coverage collection failed")

// ErrDocsBuild is returned when documentation cannot be rendered.
var ErrDocsBuild = errors.New("documentation build failed")

var errUnknownStage = errors.New("unknown stage")

// wrapErr attaches context to a sentinel while keeping errors.Is working.
func wrapErr(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
