// Package logging wires up the server's go-logging backends: a rotating
// file under the user's home directory and a mirrored stream to stderr.
// Grounded on src/cli/logging.go's InitLogging/InitFileLogging split,
// simplified for a single long-lived process rather than an interactive
// CLI session (no terminal-width-aware interactive backend, since a
// language server's stdout is the RPC channel, never a TTY).
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	logging "gopkg.in/op/go-logging.v1"
)

const dirName = ".jasmin-lsp"

var formatter = logging.MustStringFormatter(
	"%{time:15:04:05.000} %{level:7s} %{module}: %{message}",
)

// MustGetLogger returns a named logger, the same way every package in
// the teacher's langserver does (var log = logging.MustGetLogger("...")).
func MustGetLogger(name string) *logging.Logger {
	return logging.MustGetLogger(name)
}

// Init sets stderr logging at the given level with no file backend.
// Suitable for short-lived invocations (flag validation, --help) that
// never start the server loop.
func Init(level logging.Level) {
	logging.SetBackend(leveled(logging.NewLogBackend(os.Stderr, "", 0), level))
}

// InitWithFile sets up both a stderr backend at stderrLevel and a file
// backend at fileLevel. The file path is home/.jasmin-lsp/server-<time>.log
// unless explicitPath is non-empty, in which case that path is used
// verbatim (the --log_file flag). The returned close func must be called
// once the server is shutting down; it is always safe to call.
func InitWithFile(stderrLevel, fileLevel logging.Level, explicitPath string) (path string, closeFn func(), err error) {
	path = explicitPath
	if path == "" {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", nil, herr
		}
		path = filepath.Join(home, dirName, fmt.Sprintf("server-%s.log", time.Now().Format("20060102-150405")))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", nil, err
	}
	file, err := os.Create(path)
	if err != nil {
		return "", nil, err
	}
	stderrBackend := leveled(logging.NewLogBackend(os.Stderr, "", 0), stderrLevel)
	fileBackend := leveled(logging.NewLogBackend(file, "", 0), fileLevel)
	logging.SetBackend(stderrBackend, fileBackend)
	return path, func() { file.Close() }, nil
}

func leveled(backend logging.Backend, level logging.Level) logging.LeveledBackend {
	formatted := logging.NewBackendFormatter(backend, formatter)
	lb := logging.AddModuleLevel(formatted)
	lb.SetLevel(level, "")
	return lb
}

// ParseLevel maps a verbosity count (as produced by repeated -v flags)
// to a go-logging level, mirroring the teacher's cli.Verbosity scale:
// 0=WARNING, 1=NOTICE, 2=INFO, 3+=DEBUG.
func ParseLevel(verbosity int) logging.Level {
	switch {
	case verbosity <= 0:
		return logging.WARNING
	case verbosity == 1:
		return logging.NOTICE
	case verbosity == 2:
		return logging.INFO
	default:
		return logging.DEBUG
	}
}
