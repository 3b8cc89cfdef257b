package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ProxyTrust holds the peer ranges allowed to name the client through
// X-Forwarded-For or X-Real-IP. The zero value trusts nobody.
type ProxyTrust struct {
	nets []*net.IPNet
}

// ParseProxyTrust builds a ProxyTrust from IP or CIDR entries. A bare IP is
// treated as a single host range.
func ParseProxyTrust(entries []string) (*ProxyTrust, error) {
	pt := &ProxyTrust{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if _, ipNet, err := net.ParseCIDR(entry); err == nil {
			pt.nets = append(pt.nets, ipNet)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", entry)
		}
		bits := 128
		if v4 := ip.To4(); v4 != nil {
			ip, bits = v4, 32
		}
		pt.nets = append(pt.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return pt, nil
}

// Trusts reports whether host is inside one of the trusted ranges.
func (pt *ProxyTrust) Trusts(host string) bool {
	if pt == nil || len(pt.nets) == 0 {
		return false
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, ipNet := range pt.nets {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP extracts the client address from the request. The port is
// stripped from RemoteAddr so reconnects from the same host share one
// window. Forwarding headers are only honoured when the direct peer is a
// trusted proxy; anyone else could rotate them to dodge the limiter.
func (pt *ProxyTrust) ClientIP(r *http.Request) string {
	peer := remoteHost(r.RemoteAddr)
	if !pt.Trusts(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if first := strings.TrimSpace(ips[0]); first != "" {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return peer
}

func remoteHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// WriteHeaders sets the standard rate limit headers for d. Retry-After is
// only set on denial.
func WriteHeaders(w http.ResponseWriter, d Decision) {
	w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", d.Limit))
	w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", d.Remaining))
	w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", d.ResetAt.Unix()))

	if !d.Allowed {
		retryAfterSecs := int(d.RetryAfter.Seconds()) + 1
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfterSecs))
	}
}
