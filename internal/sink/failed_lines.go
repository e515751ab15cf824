package sink

import "log/slog"

const DefaultFailedLinesFile = "failed_lines.log"

// RejectSink receives raw lines that failed parsing or validation.
type RejectSink interface {
	Record(line string)
}

// LineLog appends rejected lines, one per line, to a text file. Write failures
// are logged and swallowed so ingestion of valid records carries on.
type LineLog struct {
	log appendLog
}

func NewLineLog(path string) *LineLog {
	if path == "" {
		path = DefaultFailedLinesFile
	}
	return &LineLog{log: appendLog{path: path}}
}

func (l *LineLog) Path() string {
	return l.log.path
}

func (l *LineLog) Record(line string) {
	if err := l.log.append([]byte(line)); err != nil {
		slog.Error("Could not record failed line", "path", l.log.path, "error", err)
	}
}

// Count returns how many lines the log currently holds.
func (l *LineLog) Count() (int, error) {
	return l.log.count()
}

func (l *LineLog) Close() error {
	return l.log.close()
}
