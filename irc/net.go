package irc

import (
	"net"
	"strings"
)

// cleanHostname normalises the textual form of a remote IP. IPv6-mapped IPv4
// addresses lose their "::ffff:" prefix, other compressed forms lose a
// leading "::", and the loopback leftovers ("" and "1") become 127.0.0.1.
func cleanHostname(ip string) string {
	if strings.HasPrefix(ip, "::ffff:") {
		ip = ip[len("::ffff:"):]
	} else if strings.HasPrefix(ip, "::") {
		ip = ip[len("::"):]
	}
	if ip == "" || ip == "1" {
		ip = "127.0.0.1"
	}
	return ip
}

// remoteHostPort extracts the cleaned hostname and source port of a
// connection. A non-TCP address yields its cleaned string form and port 0.
func remoteHostPort(addr net.Addr) (string, int) {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return cleanHostname(addr.String()), 0
	}
	return cleanHostname(tcp.IP.String()), tcp.Port
}

// AllDigits reports whether s is non-empty and made of ASCII digits only.
func AllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// isValidChannelName requires the "#" sigil and at least one further
// character. Names are compared case-sensitively everywhere.
func isValidChannelName(name string) bool {
	return len(name) >= 2 && name[0] == '#'
}
