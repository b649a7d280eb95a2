// Package dnsresolver implements an asynchronous DNS resolver: A-record
// and NS-record queries are multiplexed onto a single background I/O
// goroutine driving a UDP exchange, and completed queries are handed to
// the application goroutine through a mutex-guarded completion queue
// drained by PumpCallbacks.
package dnsresolver

import (
	"fmt"
	"log"
	"net"
	"net/netip"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/miekg/dns"
)

// defaultQueryTimeout bounds how long a query waits for a reply before
// the I/O loop sweeps it with an empty response. This is a single-shot
// timeout, not a retry.
const defaultQueryTimeout = 5 * time.Second

// Server is a configured upstream resolver endpoint.
type Server struct {
	IP   netip.Addr
	Port uint16
}

// Resolver is the async DNS resolver. The zero value is not usable;
// construct with New.
type Resolver struct {
	logger *log.Logger
	clock  clock.Clock

	conn       *net.UDPConn
	serverAddr *net.UDPAddr
	servers    []Server

	queryTimeout time.Duration

	// mu guards queries and stopped; the I/O loop and submitters only
	// ever touch the query table through it.
	mu       sync.Mutex
	cond     *sync.Cond
	queries  map[uint16]*query
	stopped  bool
	idSeq    uint32

	// completionMu guards the FIFO the I/O goroutine produces into and
	// PumpCallbacks consumes from.
	completionMu sync.Mutex
	completionQ  []completion

	wg sync.WaitGroup
}

// New creates an uninitialized Resolver. Call Initialize before
// submitting queries.
func New() *Resolver {
	r := &Resolver{
		logger: log.New(os.Stderr, "dnsresolver: ", log.LstdFlags),
		clock:  clock.New(),
	}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Initialize opens the resolver's UDP socket, records the configured
// servers and spawns the single dedicated I/O goroutine. It is not safe
// to call concurrently with itself, and re-initialization is not
// supported.
func (r *Resolver) Initialize(servers []Server) error {
	if len(servers) == 0 {
		return ErrNoServers
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSocketInit, err)
	}

	r.conn = conn
	r.servers = servers
	r.serverAddr = &net.UDPAddr{IP: servers[0].IP.AsSlice(), Port: int(servers[0].Port)}
	r.queries = make(map[uint16]*query)
	if r.queryTimeout == 0 {
		r.queryTimeout = defaultQueryTimeout
	}

	r.wg.Add(1)
	go r.ioLoop()

	return nil
}

// Shutdown signals the I/O goroutine to exit, closes the socket to
// unblock any pending read, joins the goroutine, and sweeps any
// remaining queries with empty responses. No new queries are accepted
// afterwards.
func (r *Resolver) Shutdown() {
	r.mu.Lock()
	r.stopped = true
	r.cond.Broadcast()
	r.mu.Unlock()

	if r.conn != nil {
		r.conn.Close()
	}

	r.wg.Wait()
	r.sweepRemaining()
}

// ResolveA submits an A-record query. Non-blocking; cb fires later from
// whichever goroutine calls PumpCallbacks.
func (r *Resolver) ResolveA(hostname string, cb Callback, state any) {
	r.submit(hostname, TypeA, dns.TypeA, cb, state)
}

// ResolveNS submits an NS-record query. Non-blocking; cb fires later
// from whichever goroutine calls PumpCallbacks.
func (r *Resolver) ResolveNS(hostname string, cb Callback, state any) {
	r.submit(hostname, TypeNS, dns.TypeNS, cb, state)
}

func (r *Resolver) submit(hostname string, kind RecordType, qtype uint16, cb Callback, state any) {
	id := uint16(atomic.AddUint32(&r.idSeq, 1))

	msg := new(dns.Msg)
	msg.Id = id
	msg.RecursionDesired = true
	msg.Question = []dns.Question{{Name: dns.Fqdn(hostname), Qtype: qtype, Qclass: dns.ClassINET}}

	q := &query{
		hostname: hostname,
		kind:     kind,
		callback: cb,
		state:    state,
		deadline: r.clock.Now().Add(r.queryTimeout),
	}

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		r.enqueue(completion{callback: cb, state: state})
		return
	}
	r.queries[id] = q
	r.mu.Unlock()

	packed, err := msg.Pack()
	if err != nil {
		r.logger.Printf("info: dns: query build failed for %q: %v", hostname, err)
		r.failQuery(id)
		return
	}

	if _, err := r.conn.WriteToUDP(packed, r.serverAddr); err != nil {
		r.logger.Printf("info: dns: transport write failed for %q: %v", hostname, err)
		r.failQuery(id)
		return
	}

	r.mu.Lock()
	r.cond.Signal()
	r.mu.Unlock()
}

// failQuery removes id from the query table (if still present) and
// enqueues its callback with an empty Response, exactly once.
func (r *Resolver) failQuery(id uint16) {
	r.mu.Lock()
	q, ok := r.queries[id]
	if ok {
		delete(r.queries, id)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	r.enqueue(completion{callback: q.callback, state: q.state})
}

func (r *Resolver) enqueue(c completion) {
	r.completionMu.Lock()
	r.completionQ = append(r.completionQ, c)
	r.completionMu.Unlock()
}

// PumpCallbacks drains the completion queue on the calling goroutine,
// invoking each callback exactly once. Must not be called concurrently
// with itself.
func (r *Resolver) PumpCallbacks() {
	for {
		r.completionMu.Lock()
		if len(r.completionQ) == 0 {
			r.completionMu.Unlock()
			return
		}
		item := r.completionQ[0]
		r.completionQ = r.completionQ[1:]
		r.completionMu.Unlock()

		item.callback(&item.response, item.state)
	}
}

// sweepRemaining delivers every still-outstanding query an empty
// response. Draining the map as it goes makes this safe to call more
// than once (the I/O loop may already have done so on a fatal error).
func (r *Resolver) sweepRemaining() {
	r.mu.Lock()
	pending := r.queries
	r.queries = make(map[uint16]*query)
	r.mu.Unlock()

	for _, q := range pending {
		r.enqueue(completion{callback: q.callback, state: q.state})
	}
}
