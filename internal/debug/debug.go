// Package debug keeps an append-only operation log next to the database.
package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// OperationsLog is the log every mutating command appends to.
const OperationsLog = "operations.log"

var separator = strings.Repeat("=", 60)

// Path returns the location of logName inside dataDir.
func Path(dataDir, logName string) string {
	return filepath.Join(dataDir, "logs", logName)
}

// Log appends an entry to dataDir/logs/logName: a separator, a timestamped
// message and, if data is not nil, data as indented JSON. Failures are
// ignored.
func Log(dataDir, logName, message string, data any) {
	logFile := Path(dataDir, logName)
	_ = os.MkdirAll(filepath.Dir(logFile), 0o755)

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	ts := time.Now().Format("2006-01-02T15:04:05")
	fmt.Fprintf(f, "\n%s\n", separator)
	fmt.Fprintf(f, "[%s] %s\n", ts, message)

	if data != nil {
		b, err := json.MarshalIndent(data, "", "  ")
		if err == nil {
			fmt.Fprintf(f, "%s\n", b)
		}
	}
}

// Tail returns the last n entries of a log, oldest first, without their
// separators.
func Tail(dataDir, logName string, n int) ([]string, error) {
	data, err := os.ReadFile(Path(dataDir, logName))
	if err != nil {
		return nil, err
	}
	var entries []string
	for _, entry := range strings.Split(string(data), separator) {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}
