package server

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// SameOrigin ties requests to the console's own address.
//
// Every request must name one of the hosts addr is reachable as, which stops DNS rebinding from reading
// pages. A loopback or wildcard addr accepts localhost, 127.0.0.1 and [::1] on its port.
// Requests that can change state must also come from the console's own pages: a cross-site
// Sec-Fetch-Site or a foreign Origin is refused before any handler runs.
func SameOrigin(addr string) Middleware {
	hosts := allowedHosts(addr)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hosts[strings.ToLower(r.Host)] {
				http.Error(w, "unknown host", http.StatusMisdirectedRequest)
				return
			}
			if !safeMethod(r.Method) && !fromSameOrigin(r) {
				http.Error(w, "cross-origin request refused", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func allowedHosts(addr string) map[string]bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return map[string]bool{strings.ToLower(addr): true}
	}

	hosts := map[string]bool{}
	switch strings.ToLower(host) {
	case "", "0.0.0.0", "::", "localhost", "127.0.0.1", "::1":
		for _, h := range []string{"localhost", "127.0.0.1", "::1"} {
			hosts[net.JoinHostPort(h, port)] = true
		}
	default:
		hosts[strings.ToLower(net.JoinHostPort(host, port))] = true
	}
	return hosts
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// fromSameOrigin reports whether the browser vouches for r coming from the console itself.
//
// Clients that send neither header, such as curl, are let through.
func fromSameOrigin(r *http.Request) bool {
	switch r.Header.Get("Sec-Fetch-Site") {
	case "cross-site", "same-site":
		return false
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
