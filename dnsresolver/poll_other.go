//go:build !linux

package dnsresolver

import (
	"net"
	"time"
)

// waitReadable is the portable fallback readiness primitive for
// platforms without the Linux poll(2) fast path. It has no portable way
// to peek at socket readiness without consuming the datagram, so it
// optimistically reports "ready" after a short bounded wait and leaves
// the real detection to processReply's own deadline-bound read, which
// simply returns quickly with nothing when there was no reply.
func waitReadable(conn *net.UDPConn, timeout time.Duration) (bool, error) {
	wait := timeout
	if wait > 50*time.Millisecond {
		wait = 50 * time.Millisecond
	}
	time.Sleep(wait)
	return true, nil
}
