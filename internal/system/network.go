package system

import (
	"net"
	"net/netip"
	"sort"
	"strings"
)

// InterfaceAddrs lists the host's interface addresses. Replaced in tests.
var InterfaceAddrs = net.InterfaceAddrs

// EditorURLs returns the http URLs under which the editor is reachable for
// a server listening on listenAddr, one per non-loopback IPv4 address. A
// listener bound to a specific host yields only that host.
func EditorURLs(listenAddr string) ([]string, error) {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return nil, err
	}
	if host != "" && host != "0.0.0.0" && host != "::" {
		return []string{formatURL(host, port)}, nil
	}

	addrs, err := InterfaceAddrs()
	if err != nil {
		return nil, err
	}
	var urls []string
	for _, a := range addrs {
		prefix, err := netip.ParsePrefix(a.String())
		if err != nil {
			continue
		}
		ip := prefix.Addr()
		if !ip.Is4() || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
			continue
		}
		urls = append(urls, formatURL(ip.String(), port))
	}
	sort.Strings(urls)
	return urls, nil
}

func formatURL(host, port string) string {
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port == "80" {
		return "http://" + host
	}
	return "http://" + host + ":" + port
}
