package utils

import (
	"io"

	"github.com/MrSnakeDoc/naago/internal/logger"
)

// MustClose closes c and logs any error.
// Use for defer statements where we want to track close errors.
func MustClose(c io.Closer, log logger.Logger) {
	if err := c.Close(); err != nil && log != nil {
		log.Warn("failed to close", logger.Error(err))
	}
}

// DrainClose discards what is left of an HTTP body before closing it so the
// connection can be reused.
func DrainClose(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 64<<10))
	_ = rc.Close()
}
