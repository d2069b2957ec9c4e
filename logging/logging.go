// Package logging configures the shared logrus logger used by the arena
// client and the proxy server.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Field keys that LogFormatter lifts into the line prefix.
const (
	FieldRequestID = "request_id"
	FieldCycleID   = "cycle_id"
)

var (
	writerMu       sync.Mutex
	logWriter      *lumberjack.Logger
	ginInfoWriter  *io.PipeWriter
	ginErrorWriter *io.PipeWriter
)

// LogFormatter renders one line per entry:
//
//	[2026-01-02 15:04:05] [a1b2c3d4] [info ] [handlers.go:42] chat request served | status=200
//
// The bracketed ID is the request ID on the server and the cycle ID in the client.
type LogFormatter struct{}

func (f *LogFormatter) Format(entry *log.Entry) ([]byte, error) {
	buffer := entry.Buffer
	if buffer == nil {
		buffer = &bytes.Buffer{}
	}

	timestamp := entry.Time.Format("2006-01-02 15:04:05")
	message := strings.TrimRight(entry.Message, "\r\n")

	id := "--------"
	if v, ok := entry.Data[FieldRequestID].(string); ok && v != "" {
		id = shortID(v)
	} else if v, ok := entry.Data[FieldCycleID].(string); ok && v != "" {
		id = shortID(v)
	}

	level := entry.Level.String()
	if level == "warning" {
		level = "warn"
	}

	if entry.Caller != nil {
		fmt.Fprintf(buffer, "[%s] [%s] [%-5s] [%s:%d] %s", timestamp, id, level, filepath.Base(entry.Caller.File), entry.Caller.Line, message)
	} else {
		fmt.Fprintf(buffer, "[%s] [%s] [%-5s] %s", timestamp, id, level, message)
	}

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == FieldRequestID || k == FieldCycleID {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i == 0 {
			buffer.WriteString(" |")
		} else {
			buffer.WriteString(",")
		}
		fmt.Fprintf(buffer, " %s=%v", k, entry.Data[k])
	}
	buffer.WriteString("\n")

	return buffer.Bytes(), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Options selects where log output goes.
type Options struct {
	Debug bool
	// File is a rotating log file. Empty means Stdout decides.
	File      string
	MaxSizeMB int
	// Stdout sends output to stdout when File is empty; otherwise output is discarded.
	Stdout bool
	// RouteGin redirects gin's default writers into logrus.
	RouteGin bool
}

// Setup configures the standard logrus logger. It may be called more than
// once; a previously opened log file is closed.
func Setup(opts Options) error {
	writerMu.Lock()
	defer writerMu.Unlock()

	log.SetReportCaller(true)
	log.SetFormatter(&LogFormatter{})
	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if logWriter != nil {
		_ = logWriter.Close()
		logWriter = nil
	}

	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return fmt.Errorf("logging: failed to create log directory: %w", err)
		}
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		logWriter = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: 3,
		}
		log.SetOutput(logWriter)
	case opts.Stdout:
		log.SetOutput(os.Stdout)
	default:
		log.SetOutput(io.Discard)
	}

	if opts.RouteGin {
		routeGinLocked()
	}
	return nil
}

func routeGinLocked() {
	if ginInfoWriter == nil {
		ginInfoWriter = log.StandardLogger().Writer()
		ginErrorWriter = log.StandardLogger().WriterLevel(log.ErrorLevel)
	}
	gin.DefaultWriter = ginInfoWriter
	gin.DefaultErrorWriter = ginErrorWriter
	gin.DebugPrintFunc = func(format string, values ...interface{}) {
		log.StandardLogger().Debugf(strings.TrimRight(format, "\r\n"), values...)
	}
}

// Close flushes and closes every writer opened by Setup.
func Close() {
	writerMu.Lock()
	defer writerMu.Unlock()

	if logWriter != nil {
		_ = logWriter.Close()
		logWriter = nil
	}
	if ginInfoWriter != nil {
		_ = ginInfoWriter.Close()
		ginInfoWriter = nil
	}
	if ginErrorWriter != nil {
		_ = ginErrorWriter.Close()
		ginErrorWriter = nil
	}
	log.SetOutput(os.Stderr)
}

// MaskKey hides all but the edges of a credential for log output.
func MaskKey(key string) string {
	if key == "" {
		return "<unset>"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
