// Package log provides a best-effort audit trail of glrev invocations.
// Entries are stored in ~/.glrev/log/glrev-log.db and record every CLI
// command and MCP tool call: which operation ran, against which branch
// and merge request, how long it took and whether it succeeded.
//
// # Fluent API
//
//	log.Event("mcp:get_review_comments", "report").
//		Branch(branch).
//		MR(iid).
//		Write(err)
//
// The source parameter is "cli:{command}" for CLI commands and
// "mcp:{tool}" for MCP tool calls.
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single audit log entry.
type Entry struct {
	Source string // e.g. "cli:branch", "mcp:get_review_changes"
	Action string // verb: report, resolve, serve
	Branch string // local branch the operation ran against
	MR     int    // resolved merge request IID, 0 when none

	Start int64 // unix timestamp when Event() was called
	End   int64 // unix timestamp when Write() was called

	Success bool
	Error   string
	Detail  map[string]any // operation-specific data
}

// Builder constructs a log entry using a fluent API. Create with
// [Event], chain setters, then call [Builder.Write].
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Branch records the local branch the operation ran against.
func (b *Builder) Branch(branch string) *Builder {
	b.entry.Branch = branch
	return b
}

// MR records the merge request IID the operation resolved.
func (b *Builder) MR(iid int) *Builder {
	b.entry.MR = iid
	return b
}

// Detail adds a key-value pair to the entry's detail map. May be called
// multiple times.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write completes the entry, deriving success or failure from err.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Callers may ignore the returned error; logging stays a no-op then.
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject sets the project identifier for subsequent entries.
// The dir should be the local repository path.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. Safe to call if the logger is not initialised
// (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
