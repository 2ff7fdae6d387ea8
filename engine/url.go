// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// hostSchemes are schemes that are meaningless without a host.
var hostSchemes = map[string]bool{
	"http": true, "https": true, "ws": true, "wss": true, "ftp": true,
}

// hostProfile is IDNA lookup without the STD3 ASCII rules, so hosts with
// underscores resolve the way browsers resolve them.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.StrictDomainName(false),
)

// ParseURL parses an absolute URL for navigation.
//
// The URL must carry a scheme. Network schemes need a host, which is
// validated and converted to its ASCII form with IDNA lookup rules.
// Errors wrap ErrInvalidURL.
func ParseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q has no scheme", ErrInvalidURL, raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)

	host := u.Hostname()
	if hostSchemes[u.Scheme] && host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
	}
	if host != "" && net.ParseIP(host) == nil {
		ascii, err := hostProfile.ToASCII(host)
		if err != nil {
			return nil, fmt.Errorf("%w: host %q: %w", ErrInvalidURL, host, err)
		}
		if port := u.Port(); port != "" {
			u.Host = net.JoinHostPort(ascii, port)
		} else {
			u.Host = ascii
		}
	}
	return u, nil
}
