// Package operation runs file triples through the morph pipeline and writes the outputs.
package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/diffmorpher/pkg/morph"
	"github.com/walteh/diffmorpher/pkg/status"
)

// 🎯 Operation is one unit of work
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔧 Options contains the settings shared by every operation of an invocation
type Options struct {
	// Morph configures the diff, reconcile and apply pipeline.
	Morph morph.Options
	// Auto treats missing inputs as absent instead of failing.
	Auto bool
	// Ignore skips triples whose source and target are byte-identical.
	Ignore bool
	// StatusMgr writes and tracks the outputs.
	StatusMgr *status.Manager
	// Logger is used when the context carries none.
	Logger *zerolog.Logger
}

// 🧱 BaseOperation holds what every operation needs
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation fills in the defaults of opts
func NewBaseOperation(opts Options) BaseOperation {
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	if opts.StatusMgr == nil {
		opts.StatusMgr = status.New("", opts.Logger)
	}
	return BaseOperation{Options: opts}
}

func (b BaseOperation) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return b.Logger
}
