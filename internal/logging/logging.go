package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/kdduha/multimodal-gateway/internal/config"
)

// New builds the application logger writing to stderr.
func New(cfg config.LogConfig) (*log.Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

func NewWithWriter(cfg config.LogConfig, w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var handler log.Handler
	switch cfg.Format {
	case "json":
		handler = json.New(w)
	case "text", "":
		handler = text.New(w)
	case "cli":
		handler = cli.New(w)
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}

	return &log.Logger{Handler: handler, Level: level}, nil
}
