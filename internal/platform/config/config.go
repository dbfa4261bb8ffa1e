package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	DatabaseURL     string // empty selects the in-memory stores
	LogFormat       string // "text" or "json"
	ShutdownTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("MEDGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logFormat := os.Getenv("MEDGATE_LOG_FORMAT")
	if logFormat == "" {
		logFormat = "text"
	}
	return Server{
		Addr:            addr,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		LogFormat:       logFormat,
		ShutdownTimeout: 10 * time.Second,
	}
}
