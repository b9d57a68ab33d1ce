package collector

import (
	"fmt"
	"os"
	"time"
)

// ErrorLog appends collector error events to a plain-text file across runs,
// same line format as the historic scraper's log.txt so existing tooling
// keeps working.
type ErrorLog struct {
	f *os.File
}

func OpenErrorLog(path string) (*ErrorLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open error log: %w", err)
	}
	return &ErrorLog{f: f}, nil
}

func (l *ErrorLog) Errorf(format string, args ...any) {
	if l == nil || l.f == nil {
		return
	}
	fmt.Fprintf(
		l.f,
		"%s - ERROR - %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		fmt.Sprintf(format, args...),
	)
}

func (l *ErrorLog) Close() error {
	if l == nil || l.f == nil {
		return nil
	}
	return l.f.Close()
}
