package dnsresolver

import "net/netip"

// netipAddrFromIP converts a net.IP (as returned inside a dns.A record)
// into a netip.Addr, rejecting anything that isn't a 4-byte IPv4 form
// since this core only resolves A records, never AAAA.
func netipAddrFromIP(ip []byte) (netip.Addr, bool) {
	v4 := ip
	if len(v4) == 16 {
		if asV4, ok := netip.AddrFromSlice(v4); ok && asV4.Is4In6() {
			return netip.AddrFrom4(asV4.As4()), true
		}
		return netip.Addr{}, false
	}
	if len(v4) != 4 {
		return netip.Addr{}, false
	}
	addr, ok := netip.AddrFromSlice(v4)
	if !ok {
		return netip.Addr{}, false
	}
	return addr, true
}
