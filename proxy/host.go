// File: proxy/host.go
// Author: momentics <momentics@gmail.com>

package proxy

import (
	"regexp"

	"github.com/momentics/hioload-proxy/api"
)

// Host must open a header line, so X-Forwarded-Host and request targets
// never match.
var hostField = regexp.MustCompile(`(?m)^Host:[ \t]*([.a-zA-Z0-9-]+(?::[0-9]+)?)`)

// ExtractHost returns the destination named by the first Host field of req.
func ExtractHost(req api.Buffer) (string, bool) {
	m := hostField.FindSubmatch(req)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}
