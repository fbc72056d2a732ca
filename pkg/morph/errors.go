package morph

import (
	"github.com/walteh/diffmorpher/pkg/reconcile"
	"gitlab.com/tozd/go/errors"
)

// Error kinds. Test with errors.Is.
var (
	ErrUnreadableInput = errors.Base("unreadable input")
	ErrSizeMismatch    = reconcile.ErrSizeMismatch
	ErrLengthMismatch  = errors.Base("length mismatch")
	ErrWriteFailure    = errors.Base("write failure")
	ErrArgument        = errors.Base("argument error")
)
