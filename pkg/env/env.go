// Package env reads process settings needed before config.Load runs, such as
// the bootstrap log format and the instance id.
package env

import (
	"os"
	"strings"
)

// Prefix namespaces every variable read through Service.
const Prefix = "MARKETRECON_"

// Get returns the trimmed value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// Service reads Prefix+key.
func Service(key, fallback string) string {
	return Get(Prefix+key, fallback)
}
