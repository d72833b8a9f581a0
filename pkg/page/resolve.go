package page

import (
	"context"
	"regexp"

	"github.com/washwatch/washwatch/internal/logger"
)

// StructuralProbe matches the markup shapes that carry machine rows.
const StructuralProbe = `table, [role='grid']`

// keywordProbe matches the laundry vocabulary used as a weaker signal when a
// frame has no recognizable structure.
var keywordProbe = regexp.MustCompile(`(?i)washer|dryer|available|in use|out of order`)

// Resolve determines which document scope actually contains the status data.
//
// Policy, in order:
//  1. the root itself passes the structural probe → root;
//  2. exactly one lazily-attached frame → force its load and select it;
//  3. probe each frame in document order, structural match first, visible-text
//     keyword match as fallback; first frame satisfying either wins;
//  4. nothing qualifies → root (extraction may then yield zero rows, which is
//     a valid outcome, not an error).
//
// Frame load failures are treated as structural absence and skipped; Resolve
// never fails.
func Resolve(ctx context.Context, root Context) Context {
	if len(root.Select(StructuralProbe)) > 0 {
		logger.Debug("resolver: root is data-bearing", "url", root.URL())
		return root
	}

	frames := root.Frames()
	if len(frames) == 0 {
		logger.Debug("resolver: no frames attached, using root", "url", root.URL())
		return root
	}

	if lazy := singleDeferred(frames); lazy != nil {
		loaded, err := lazy.Load(ctx)
		if err == nil {
			logger.Debug("resolver: forced single lazy frame", "url", loaded.URL())
			return loaded
		}
		logger.Warn("resolver: failed to force lazy frame", "error", err)
	}

	for i, f := range frames {
		loaded, err := f.Load(ctx)
		if err != nil {
			logger.Debug("resolver: frame not loadable, skipping", "index", i, "error", err)
			continue
		}
		if len(loaded.Select(StructuralProbe)) > 0 {
			logger.Debug("resolver: frame matched structural probe", "index", i, "url", loaded.URL())
			return loaded
		}
		if keywordProbe.MatchString(loaded.Text()) {
			logger.Debug("resolver: frame matched keyword probe", "index", i, "url", loaded.URL())
			return loaded
		}
	}

	logger.Debug("resolver: no frame qualified, falling back to root", "url", root.URL())
	return root
}

// singleDeferred returns the sole lazily-attached frame, or nil when there
// are zero or several.
func singleDeferred(frames []Frame) Frame {
	var found Frame
	for _, f := range frames {
		if !f.Deferred() {
			continue
		}
		if found != nil {
			return nil
		}
		found = f
	}
	return found
}
