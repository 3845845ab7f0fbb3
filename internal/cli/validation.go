package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vinhhn3/docker-demo/internal/config"
	"github.com/vinhhn3/docker-demo/internal/db/mongodb"
)

// validatePort validates port input
func validatePort(input string) (string, error) {
	port, err := config.ParsePort(input)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(port), nil
}

// validateMongoURI validates a MongoDB connection string
func validateMongoURI(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("mongo uri is required")
	}
	if _, err := mongodb.DatabaseNameFromURI(input); err != nil {
		return "", fmt.Errorf("invalid mongo uri: must look like mongodb://host:27017/dbname")
	}
	return input, nil
}

// validateLogLevel validates log level input
func validateLogLevel(input string) (string, error) {
	level := strings.ToLower(strings.TrimSpace(input))
	switch level {
	case "debug", "info", "warn", "error":
		return level, nil
	case "warning":
		return "warn", nil
	default:
		return "", fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", input)
	}
}
