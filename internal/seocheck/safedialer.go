package seocheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"slices"
	"syscall"
	"time"
)

// ErrBlockedAddress is wrapped into the dial error when a page resolves to
// an address the checker refuses to contact.
var ErrBlockedAddress = errors.New("destination address is private or reserved")

// nonPublicRanges are special-purpose ranges that the netip.Addr predicates
// in isPublicAddr do not flag on their own.
var nonPublicRanges = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"),   // RFC 6598 shared address space
	netip.MustParsePrefix("192.0.0.0/24"),    // RFC 6890 protocol assignments
	netip.MustParsePrefix("192.0.2.0/24"),    // RFC 5737 documentation
	netip.MustParsePrefix("198.18.0.0/15"),   // RFC 2544 benchmarking
	netip.MustParsePrefix("198.51.100.0/24"), // RFC 5737 documentation
	netip.MustParsePrefix("203.0.113.0/24"),  // RFC 5737 documentation
	netip.MustParsePrefix("64:ff9b::/96"),    // RFC 6052 NAT64, embeds any IPv4
}

// newDialer returns the dialer used for page fetches. The address check
// runs on the resolved IP right before connecting, so a hostname that
// rebinds to an internal address is caught too. allowPrivate turns the
// check off for local development and tests.
func newDialer(allowPrivate bool) *net.Dialer {
	d := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	if !allowPrivate {
		d.ControlContext = guardDial
	}
	return d
}

func guardDial(_ context.Context, _, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: unparseable dial address %q", ErrBlockedAddress, address)
	}
	if !isPublicAddr(ap.Addr()) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ap.Addr().Unmap())
	}
	return nil
}

// isPublicAddr reports whether ip is globally routable unicast outside every
// private and special-purpose range. IPv4-mapped IPv6 is judged as IPv4.
func isPublicAddr(ip netip.Addr) bool {
	ip = ip.Unmap()
	if !ip.IsGlobalUnicast() || ip.IsPrivate() {
		return false
	}
	return !slices.ContainsFunc(nonPublicRanges, func(p netip.Prefix) bool {
		return p.Contains(ip)
	})
}
