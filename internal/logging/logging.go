package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const sessionStamp = "20060102_150405"

// LogFilePath returns logsDir/name.YYYYMMDD_HHMMSS.log.
func LogFilePath(logsDir, name string, sessionStart time.Time) string {
	return filepath.Join(logsDir, name+"."+sessionStart.Format(sessionStamp)+".log")
}

// OpenSessionLog creates logsDir if needed and opens the session's log
// file for appending. A file left over from a session with the same stamp
// is moved aside to "<path>.old" first.
func OpenSessionLog(logsDir, name string, sessionStart time.Time) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create logs dir: %w", err)
	}
	path := LogFilePath(logsDir, name, sessionStart)
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".old"); err != nil {
			return nil, fmt.Errorf("failed to move aside %s: %w", path, err)
		}
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}
