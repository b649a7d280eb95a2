package dnsresolver

import (
	"net/netip"
	"time"
)

// RecordType identifies which resource record a Query is asking for.
// Only A and NS lookups are supported.
type RecordType int

const (
	TypeA RecordType = iota
	TypeNS
)

// Response carries the decoded result of a completed query. Either
// slice may be empty on error; ownership passes to the callback and the
// resolver does not retain it afterwards.
type Response struct {
	IPs         []netip.Addr
	Nameservers []string
}

// Callback is invoked exactly once per submitted query, from whichever
// goroutine calls PumpCallbacks.
type Callback func(*Response, any)

// query is the resolver's bookkeeping record for one in-flight request.
// It is owned by the resolver from submission until its response is
// dequeued and delivered.
type query struct {
	hostname string
	kind     RecordType
	callback Callback
	state    any
	deadline time.Time
}

// completion is a query whose response is ready for delivery, sitting
// in the pump queue guarded by Resolver.completionMu.
type completion struct {
	response Response
	callback Callback
	state    any
}
