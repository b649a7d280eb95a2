package dnsresolver

import "errors"

var (
	// ErrNoServers is returned by Initialize when the supplied server
	// list is empty; running without an upstream is a configuration error.
	ErrNoServers = errors.New("dnsresolver: at least one DNS server is required")

	// ErrSocketInit is returned by Initialize when the UDP socket used
	// to talk to the configured servers could not be opened.
	ErrSocketInit = errors.New("dnsresolver: unable to open resolver socket")
)
