package instance

import (
	"os"

	"github.com/PHRJr/BuritisProject/pkg/env"
)

// GetID names the running process in logs. Platform-provided ids win over
// the hostname; "local" is the last resort.
func GetID() string {
	if id := env.First("BURITIS_INSTANCE_ID", "RENDER_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
