package scraper

import "errors"

// Per-program failure taxonomy. These are isolated at the batch boundary:
// they are recorded in the batch report and logged, never propagated.
var (
	// ErrNavigation means the quoting site was unreachable or its layout no
	// longer matches the form selectors.
	ErrNavigation = errors.New("navigation failed")

	// ErrTimeout means the result never rendered within the wait bound.
	// There is no in-batch retry; the next scheduled batch is the recovery.
	ErrTimeout = errors.New("result not rendered within wait bound")

	// ErrParse means the rendered result text contained no recognizable
	// tenor/price pattern.
	ErrParse = errors.New("no price pattern found in result text")
)
