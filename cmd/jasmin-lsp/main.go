// Command jasmin-lsp is the language server's process entry point:
// flag parsing, logging setup, grammar linking and transport selection.
// Grounded on tools/build_langserver/langserver_main.go's opts/serve
// split, simplified to jessevdk/go-flags directly rather than please's
// own cli wrapper (that wrapper is teacher code, not a dependency worth
// carrying forward here).
package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"

	"github.com/fsnotify/fsnotify"
	flags "github.com/jessevdk/go-flags"

	"github.com/jasmin-lang/jasmin-lsp/internal/logging"
	"github.com/jasmin-lang/jasmin-lsp/internal/parser"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
	"github.com/jasmin-lang/jasmin-lsp/internal/resolve"
	"github.com/jasmin-lang/jasmin-lsp/internal/rpc"
	"github.com/jasmin-lang/jasmin-lsp/internal/server"
)

var log = logging.MustGetLogger("jasmin-lsp")

type options struct {
	Verbose []bool `short:"v" long:"verbose" description:"Increase log verbosity (repeatable)"`
	LogFile string `long:"log_file" description:"Write logs to this file instead of ~/.jasmin-lsp"`

	Mode string `long:"mode" choice:"stdio" choice:"tcp" default:"stdio" description:"Transport to serve on"`
	Host string `long:"host" default:"localhost" description:"Host to listen on in tcp mode"`
	Port int    `long:"port" default:"2087" description:"Port to listen on in tcp mode"`

	WorkspaceRoot string `long:"workspace_root" description:"Directory to watch for out-of-editor file changes"`
}

func main() {
	var opts options
	flagParser := flags.NewParser(&opts, flags.Default)
	flagParser.Name = "jasmin-lsp"
	if _, err := flagParser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	level := logging.ParseLevel(len(opts.Verbose))
	logPath, closeLog, err := logging.InitWithFile(level, level, opts.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jasmin-lsp: failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	log.Infof("logging to %s", logPath)

	if parser.Language == nil {
		log.Warningf("no jasmin grammar linked in; parsing will fail until a grammar is compiled in")
	}

	if err := run(opts); err != nil {
		log.Errorf("jasmin-lsp: %v", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	p := parser.New(parser.Language)
	state := server.NewServerState(p, fileExists)
	if opts.WorkspaceRoot != "" {
		state.WorkspaceRoot = opts.WorkspaceRoot
	}

	switch opts.Mode {
	case "tcp":
		return serveTCP(opts, state)
	default:
		return serveStdio(state)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func serveStdio(state *server.ServerState) error {
	channel := rpc.NewChannel(os.Stdin, os.Stdout, rpcLogAdapter{})
	srv := server.NewServer(channel, state, log)
	if events, stop := watchWorkspace(state.WorkspaceRoot); events != nil {
		defer stop()
		srv.FileEvents = events
	}
	return srv.Run()
}

func serveTCP(opts options, state *server.ServerState) error {
	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	defer listener.Close()
	log.Infof("listening on %s", addr)

	conn, err := listener.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	channel := rpc.NewChannel(conn, conn, rpcLogAdapter{})
	srv := server.NewServer(channel, state, log)
	if events, stop := watchWorkspace(state.WorkspaceRoot); events != nil {
		defer stop()
		srv.FileEvents = events
	}
	return srv.Run()
}

// watchWorkspace starts an fsnotify watcher over root, if any, and
// translates raw fs events into workspace/didChangeWatchedFiles
// notifications folded into the same priority queue as client-sent
// requests (SPEC_FULL.md §3's fsnotify entry). Returns nil, nil if root
// is empty or the watcher can't be set up; file watching is optional,
// not required for the server to function.
func watchWorkspace(root string) (<-chan rpc.Notification, func()) {
	if root == "" {
		return nil, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warningf("fsnotify unavailable, out-of-editor changes will not be tracked: %v", err)
		return nil, nil
	}
	if err := addRecursive(watcher, root); err != nil {
		log.Warningf("failed to watch %s: %v", root, err)
		watcher.Close()
		return nil, nil
	}

	out := make(chan rpc.Notification)
	go func() {
		defer close(out)
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if notif, ok := translateFSEvent(ev); ok {
					out <- notif
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warningf("fsnotify: %v", err)
			}
		}
	}()
	return out, func() { watcher.Close() }
}

// addRecursive walks root adding every directory, since fsnotify
// watches are not themselves recursive. A single unreadable
// subdirectory is skipped rather than aborting the whole walk.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	if err := watcher.Add(root); err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			_ = addRecursive(watcher, root+string(os.PathSeparator)+e.Name())
		}
	}
	return nil
}

func translateFSEvent(ev fsnotify.Event) (rpc.Notification, bool) {
	var typ protocol.FileChangeType
	switch {
	case ev.Op&fsnotify.Remove == fsnotify.Remove:
		typ = protocol.FileDeleted
	case ev.Op&fsnotify.Create == fsnotify.Create:
		typ = protocol.FileCreated
	case ev.Op&fsnotify.Write == fsnotify.Write:
		typ = protocol.FileChanged
	default:
		return rpc.Notification{}, false
	}

	params := protocol.DidChangeWatchedFilesParams{
		Changes: []protocol.FileEvent{{URI: resolve.URIFromPath(ev.Name), Type: typ}},
	}
	body, err := json.Marshal(params)
	if err != nil {
		return rpc.Notification{}, false
	}
	return rpc.Notification{Method: "workspace/didChangeWatchedFiles", Params: body}, true
}

type rpcLogAdapter struct{}

func (rpcLogAdapter) Debugf(format string, args ...interface{})   { log.Debugf(format, args...) }
func (rpcLogAdapter) Warningf(format string, args ...interface{}) { log.Warningf(format, args...) }
