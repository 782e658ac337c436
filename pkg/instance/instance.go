package instance

import (
	"os"

	"github.com/angelmondragon/marketrecon-backend/pkg/env"
)

const defaultID = "worker-0"

// GetID identifies this process in lock values and logs. It prefers
// MARKETRECON_INSTANCE_ID, then the hostname.
func GetID() string {
	if id := env.Service("INSTANCE_ID", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return defaultID
}
