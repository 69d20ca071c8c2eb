package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the immutable server settings. It is built once at startup and
// shared read-only across all workers.
type Config struct {
	// Addr is the interface to bind, Port the TCP port.
	Addr string
	Port uint16

	// Root is the canonical absolute directory all served content must
	// resolve beneath. Set via ResolveRoot.
	Root string

	// Workers is the size of the connection worker pool; Backlog the bound of
	// the queue feeding it. A full queue delays further accepts.
	Workers int
	Backlog int

	// Per-connection deadlines. ReadTimeout doubles as the keep-alive idle
	// timeout; zero disables the deadline.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// LogRequests controls the one-line-per-request log output.
	LogRequests bool
}

func Default() Config {
	return Config{
		Addr:         "0.0.0.0",
		Port:         8080,
		Workers:      64,
		Backlog:      128,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		LogRequests:  true,
	}
}

func (c Config) Validate() error {
	if c.Port == 0 {
		return fmt.Errorf("port must be in 1..65535")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Backlog <= 0 {
		return fmt.Errorf("backlog must be positive, got %d", c.Backlog)
	}
	if c.Root == "" {
		return fmt.Errorf("root directory not resolved")
	}
	if !filepath.IsAbs(c.Root) {
		return fmt.Errorf("root %q is not absolute", c.Root)
	}
	return nil
}

// Listen returns the address string for net.Listen.
func (c Config) Listen() string {
	return fmt.Sprintf("%s:%d", c.Addr, c.Port)
}

// ResolveRoot canonicalizes dir into the absolute, symlink-resolved path used
// for all containment checks. It must name an existing directory.
func ResolveRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("absolutize %q: %w", dir, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("canonicalize %q: %w", abs, err)
	}
	st, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !st.IsDir() {
		return "", fmt.Errorf("root %q is not a directory", resolved)
	}
	return filepath.Clean(resolved), nil
}
