package dnsresolver

import (
	"errors"
	"net"
	"sort"
	"time"

	"github.com/miekg/dns"
)

// ioLoop is the resolver's single dedicated I/O goroutine. Under the
// channel mutex, ask how long to wait; if there's nothing in flight,
// block on the condition variable; otherwise wait for readiness with
// the computed timeout, then process whatever arrived.
func (r *Resolver) ioLoop() {
	defer r.wg.Done()

	for {
		r.mu.Lock()
		for len(r.queries) == 0 && !r.stopped {
			r.cond.Wait()
		}
		if r.stopped {
			r.mu.Unlock()
			return
		}
		timeout := r.nextTimeoutLocked()
		r.mu.Unlock()

		ready, err := waitReadable(r.conn, timeout)
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				r.logger.Printf("error: dns: io loop readiness primitive failed: %v", err)
			}
			r.sweepRemaining()
			return
		}
		if ready {
			r.processReply()
		}
		r.sweepExpired()
	}
}

// nextTimeoutLocked computes how long the readiness primitive should
// wait: the time remaining until the earliest in-flight query's
// deadline, clamped to a small positive floor so expired queries are
// swept promptly and to a ceiling so the loop re-checks the stop flag
// often enough for Shutdown to stay bounded. Caller must hold r.mu.
func (r *Resolver) nextTimeoutLocked() time.Duration {
	now := r.clock.Now()
	var min time.Duration = -1
	for _, q := range r.queries {
		remaining := q.deadline.Sub(now)
		if min == -1 || remaining < min {
			min = remaining
		}
	}
	if min < 10*time.Millisecond {
		min = 10 * time.Millisecond
	}
	if min > 100*time.Millisecond {
		min = 100 * time.Millisecond
	}
	return min
}

// sweepExpired delivers an empty response to every query whose deadline
// has passed without a reply, in deadline order, without touching
// queries still within their window.
func (r *Resolver) sweepExpired() {
	now := r.clock.Now()
	var expired []*query

	r.mu.Lock()
	for id, q := range r.queries {
		if now.After(q.deadline) {
			expired = append(expired, q)
			delete(r.queries, id)
		}
	}
	r.mu.Unlock()

	sort.Slice(expired, func(i, j int) bool {
		return expired[i].deadline.Before(expired[j].deadline)
	})

	for _, q := range expired {
		r.logger.Printf("info: dns: query for %q timed out", q.hostname)
		r.enqueue(completion{callback: q.callback, state: q.state})
	}
}

// processReply reads one UDP datagram, parses it with miekg/dns, and
// matches it to an in-flight query by DNS message ID. A reply that
// can't be matched (unknown ID, already delivered, stray packet) is
// dropped silently; it never results in a callback firing twice.
func (r *Resolver) processReply() {
	buf := make([]byte, 1500)

	r.conn.SetReadDeadline(r.clock.Now().Add(50 * time.Millisecond))
	n, _, err := r.conn.ReadFromUDP(buf)
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return
		}
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return
		}
		r.logger.Printf("info: dns: transport read error: %v", err)
		return
	}

	msg := new(dns.Msg)
	if err := msg.Unpack(buf[:n]); err != nil {
		r.logger.Printf("info: dns: reply parse error: %v", err)
		return
	}

	r.mu.Lock()
	q, ok := r.queries[msg.Id]
	if ok {
		delete(r.queries, msg.Id)
	}
	r.mu.Unlock()
	if !ok {
		return
	}

	resp := decodeResponse(q.kind, msg)
	r.enqueue(completion{response: resp, callback: q.callback, state: q.state})
}

func decodeResponse(kind RecordType, msg *dns.Msg) Response {
	var resp Response
	switch kind {
	case TypeA:
		for _, rr := range msg.Answer {
			if a, ok := rr.(*dns.A); ok {
				if addr, ok := netipAddrFromIP(a.A); ok {
					resp.IPs = append(resp.IPs, addr)
				}
			}
		}
	case TypeNS:
		for _, rr := range msg.Answer {
			if ns, ok := rr.(*dns.NS); ok {
				resp.Nameservers = append(resp.Nameservers, ns.Ns)
			}
		}
	}
	return resp
}
