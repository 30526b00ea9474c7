package logs

import (
	"fmt"
	"io"

	log "github.com/xuperchain/log15"
)

// Output formats.
const (
	FormatLogfmt = "logfmt"
	FormatJSON   = "json"
)

// LogConfig selects the level and line format of the command-line logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level,omitempty"`
	Format string `mapstructure:"format" yaml:"format,omitempty"`
}

// GetDefLogConf returns the logger defaults: warnings and above, logfmt.
func GetDefLogConf() LogConfig {
	return LogConfig{
		Level:  "warn",
		Format: FormatLogfmt,
	}
}

// Open creates a logger writing to w, filtered to lc.Level.
func Open(lc LogConfig, w io.Writer) (log.Logger, error) {
	var lfmt log.Format
	switch lc.Format {
	case "", FormatLogfmt:
		lfmt = log.LogfmtFormat()
	case FormatJSON:
		lfmt = log.JsonFormat()
	default:
		return nil, fmt.Errorf("unknown log format %q (want %s or %s)", lc.Format, FormatLogfmt, FormatJSON)
	}

	level := lc.Level
	if level == "" {
		level = GetDefLogConf().Level
	}
	lvl, err := log.LvlFromString(level)
	if err != nil {
		return nil, fmt.Errorf("log level error: %w", err)
	}

	xlog := log.New("module", "libstub")
	xlog.SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(w, lfmt)))
	return xlog, nil
}

// Discard returns a logger that drops every record.
func Discard() log.Logger {
	xlog := log.New()
	xlog.SetHandler(log.DiscardHandler())
	return xlog
}
