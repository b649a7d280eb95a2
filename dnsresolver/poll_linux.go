//go:build linux

package dnsresolver

import (
	"net"
	"time"

	"golang.org/x/sys/unix"
)

// waitReadable blocks until conn has a datagram ready to read or timeout
// elapses, using poll(2) on the underlying file descriptor. This is the
// readiness primitive the I/O loop calls between processing replies; on
// Linux it avoids paying for a goroutine-per-read-deadline dance.
func waitReadable(conn *net.UDPConn, timeout time.Duration) (bool, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return false, err
	}

	ms := int(timeout / time.Millisecond)
	if ms <= 0 {
		ms = 1
	}

	var ready bool
	var pollErr error
	ctrlErr := raw.Control(func(fd uintptr) {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, ms)
		if err != nil {
			if err == unix.EINTR {
				return
			}
			pollErr = err
			return
		}
		ready = n > 0 && fds[0].Revents&unix.POLLIN != 0
	})
	if ctrlErr != nil {
		return false, ctrlErr
	}
	if pollErr != nil {
		return false, pollErr
	}
	return ready, nil
}
