package infra

import (
	"strings"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

// NewLogger builds the console logger used by every component.
func NewLogger(level, format string) arbor.ILogger {
	if level == "" {
		level = "info"
	}
	return arbor.NewLogger().WithConsoleWriter(consoleConfig(format)).WithLevelFromString(level)
}

// consoleConfig maps the logging.format setting onto a writer configuration.
func consoleConfig(format string) models.WriterConfiguration {
	out := models.OutputFormatLogfmt
	if strings.EqualFold(format, "json") {
		out = models.OutputFormatJSON
	}
	return models.WriterConfiguration{
		Type:       models.LogWriterTypeConsole,
		TimeFormat: "15:04:05",
		OutputType: out,
	}
}

// NewNoOpLogger returns a logger with a single private writer that drops
// everything. A logger without private writers would fall through to the
// globally registered console writer.
func NewNoOpLogger() arbor.ILogger {
	return arbor.NewLogger().WithWriters([]writers.IWriter{discardWriter{}})
}

// OrNoOp returns l, or a discarding logger when l is nil.
func OrNoOp(l arbor.ILogger) arbor.ILogger {
	if l == nil {
		return NewNoOpLogger()
	}
	return l
}

type discardWriter struct{}

func (d discardWriter) WithLevel(log.Level) writers.IWriter { return d }
func (discardWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (discardWriter) GetFilePath() string                   { return "" }
func (discardWriter) Close() error                          { return nil }
