package logger

import (
	"os"
	"strings"
)

type LoggerConfig struct {
	Level      string
	Format     string
	OutputFile string
	// Service is attached to every entry as "service".
	Service string
}

// lookup prefers the service-scoped CONTENT_<key> over the bare key.
func lookup(key, fallback string) string {
	for _, name := range []string{"CONTENT_" + key, key} {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			return value
		}
	}
	return fallback
}

// DefaultConfig reads LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT_FILE and SERVICE_NAME,
// each optionally prefixed with CONTENT_.
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:      strings.ToLower(lookup("LOG_LEVEL", "info")),
		Format:     strings.ToLower(lookup("LOG_FORMAT", "json")),
		OutputFile: lookup("LOG_OUTPUT_FILE", "stdout"),
		Service:    lookup("SERVICE_NAME", "content-service"),
	}
}
