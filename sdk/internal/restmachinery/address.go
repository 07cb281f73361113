package restmachinery

import (
	"net/url"
	"strings"
)

// DefaultAPIAddress is used whenever no valid API address is supplied.
const DefaultAPIAddress = "http://localhost:8080/api"

// ResolveAPIAddress returns the override if it is a well-formed, absolute
// http or https URL and DefaultAPIAddress otherwise. The boolean return value
// indicates whether the override was used.
func ResolveAPIAddress(override string) (string, bool) {
	override = strings.TrimSpace(override)
	if override == "" {
		return DefaultAPIAddress, false
	}
	u, err := url.Parse(override)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return DefaultAPIAddress, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return DefaultAPIAddress, false
	}
	return strings.TrimSuffix(override, "/"), true
}
