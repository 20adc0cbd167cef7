package opend

import (
	"context"
	"net"
	"strconv"
	"time"
)

// IsReady reports whether the OpenD gateway at host:port is accepting
// TCP connections. It makes floor(timeout/retryInterval) attempts,
// each with retryInterval as its own dial timeout, sleeping
// retryInterval between failures. Connection errors mean "not ready
// yet"; the probe never returns an error.
func IsReady(ctx context.Context, host string, port int, timeout, retryInterval time.Duration) bool {
	if retryInterval <= 0 {
		return false
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	attempts := int(timeout / retryInterval)

	for i := 0; i < attempts; i++ {
		d := net.Dialer{Timeout: retryInterval}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			conn.Close()
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(retryInterval):
		}
	}
	return false
}
