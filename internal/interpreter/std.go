package interpreter

import (
	"context"
	"time"
)

// stdClock is the `clock()` builtin: wall-clock seconds since the Unix
// epoch, as a float64 so it composes with every other Klox number.
func stdClock(ctx context.Context, interp *interpreter, arguments []any) (any, error) {
	return float64(time.Now().UnixNano()) / float64(time.Second), nil
}
