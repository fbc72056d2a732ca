package diff

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/walteh/diffmorpher/pkg/text"
)

// 🧩 DMP computes scripts with diff-match-patch.
//
// It mirrors the preprocessing diff-match-patch applies when building patches: a line-mode
// speedup for large inputs followed by semantic and efficiency cleanups.
type DMP struct {
	// Timeout is passed through as DiffTimeout. Zero disables the deadline.
	Timeout time.Duration
}

var _ Differencer = (*DMP)(nil)

// Diff implements Differencer.
func (e *DMP) Diff(ctx context.Context, source, target text.Buffer) Script {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = e.Timeout
	if d, ok := ctx.Deadline(); ok {
		if remaining := time.Until(d); dmp.DiffTimeout <= 0 || remaining < dmp.DiffTimeout {
			dmp.DiffTimeout = max(remaining, time.Nanosecond)
		}
	}

	diffs := dmp.DiffMainRunes(source, target, true)
	if len(diffs) > 2 {
		diffs = dmp.DiffCleanupSemantic(diffs)
		diffs = dmp.DiffCleanupEfficiency(diffs)
	}

	zerolog.Ctx(ctx).Trace().Int("diffs", len(diffs)).Msg("diff-match-patch finished")

	return fromDMP(diffs).Normalize()
}

func fromDMP(diffs []diffmatchpatch.Diff) Script {
	out := make(Script, 0, len(diffs))
	for _, d := range diffs {
		var kind Kind
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			kind = Delete
		case diffmatchpatch.DiffInsert:
			kind = Insert
		default:
			kind = Equal
		}
		out = append(out, Op{Kind: kind, Text: text.FromString(d.Text)})
	}
	return out
}
