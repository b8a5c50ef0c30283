// Package clipboard copies text to the system clipboard.
//
// Copying is best effort: a failed primary write falls back to a secondary
// surface, and every failure is logged and swallowed. Errors never reach the
// caller.
package clipboard

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

var ErrUnavailable = errors.New("no clipboard tool available")

// Writer is the preferred clipboard strategy.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// Surface hosts temporary regions used by the fallback copy.
type Surface interface {
	Insert(text string) (Region, error)
}

// Region is a hidden, selectable piece of text that can be copied once.
type Region interface {
	Focus()
	SelectAll()
	ExecCopy() error
	Remove()
}

// Target is anything a click handler can be attached to.
type Target interface {
	OnClick(func(ctx context.Context))
}

// Helper copies with Primary and falls back to Fallback.
type Helper struct {
	Primary  Writer
	Fallback Surface
	Logger   *zap.Logger
}

// NewHelper returns a Helper using the system clipboard with the OSC 52
// terminal sequence as fallback.
func NewHelper(logger *zap.Logger) *Helper {
	return &Helper{
		Primary:  NewSystemWriter(),
		Fallback: NewOSC52Surface(nil),
		Logger:   logger,
	}
}

// Bind attaches a click handler to target that copies text.
func (h *Helper) Bind(target Target, text string) {
	target.OnClick(func(ctx context.Context) {
		h.Copy(ctx, text)
	})
}

// Copy writes text with the primary strategy and falls back on any failure.
func (h *Helper) Copy(ctx context.Context, text string) {
	if h.Primary == nil {
		h.FallbackCopy(text)
		return
	}
	if err := h.Primary.WriteText(ctx, text); err != nil {
		h.logger().Warn("clipboard write failed", zap.Error(err))
		h.FallbackCopy(text)
	}
}

// FallbackCopy inserts a region, selects it, copies once and removes the
// region whatever the copy returned.
func (h *Helper) FallbackCopy(text string) {
	if h.Fallback == nil {
		h.logger().Warn("clipboard fallback unavailable")
		return
	}
	region, err := h.Fallback.Insert(text)
	if err != nil {
		h.logger().Warn("clipboard fallback insert failed", zap.Error(err))
		return
	}
	defer region.Remove()

	region.Focus()
	region.SelectAll()
	if err := region.ExecCopy(); err != nil {
		h.logger().Warn("clipboard fallback copy failed", zap.Error(err))
	}
}

func (h *Helper) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}
