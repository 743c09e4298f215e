package utils

import (
	"io"

	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// drainLimit caps how much of an unread response body is discarded.
const drainLimit = 64 << 10

// Close closes c and ignores any error.
// Use for best-effort cleanup in defer where error handling is not critical.
func Close(c io.Closer) {
	_ = c.Close()
}

// DrainAndClose discards what is left of an HTTP response body, up to
// drainLimit, then closes it so the transport can reuse the connection.
func DrainAndClose(rc io.ReadCloser) {
	_, _ = io.CopyN(io.Discard, rc, drainLimit)
	_ = rc.Close()
}

// CloseWithLog closes c and logs any error under name.
// Use for shutdown paths where we want to track close errors.
func CloseWithLog(c io.Closer, log logger.Logger, name string) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close "+name, logger.Error(err))
	}
}
