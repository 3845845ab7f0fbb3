package models

// Config holds database configuration
type Config struct {
	Provider string            // mongodb
	URI      string            // Connection URI
	Options  map[string]string // Provider-specific options
}
