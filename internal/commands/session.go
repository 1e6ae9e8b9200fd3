package commands

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"calboard/internal/config"
	"calboard/internal/engine"
	"calboard/internal/filter"
	"calboard/internal/storage"
	"calboard/internal/tasks"
)

// RootOptions are the flags every command shares.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// interactive returns options for commands that own the terminal. Their
// logs always go to the log file.
func (o *RootOptions) interactive() *RootOptions {
	c := *o
	c.Verbose = false
	return &c
}

func (o *RootOptions) configPath() string {
	if o.ConfigPath != "" {
		return o.ConfigPath
	}
	return config.ResolveConfigPath()
}

// session is one opened calendar: config, durable slot and engine.
type session struct {
	cfg     config.Config
	slot    storage.SlotCloser
	engine  *engine.Engine
	logger  *log.Logger
	logFile io.Closer
}

func openSession(o *RootOptions) (*session, error) {
	cfg, err := config.LoadOrCreate(o.configPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	s := &session{cfg: cfg}
	if s.logger, s.logFile, err = openLogger(cfg.LogFile, o.Verbose); err != nil {
		return nil, err
	}

	s.slot, err = storage.OpenSlot(cfg.Backend, cfg.StoragePath())
	if err != nil {
		s.closeLog()
		return nil, fmt.Errorf("open %s storage: %w", cfg.Backend, err)
	}

	adapter := storage.NewAdapter(s.slot, cfg.SlotKey, s.logger)
	s.logger.Printf("opened %s storage at %s, key %q", cfg.Backend, cfg.StoragePath(), adapter.Key())
	store := tasks.New(adapter, tasks.WithLogger(s.logger))
	s.engine = engine.New(store,
		engine.WithLogger(s.logger),
		engine.WithFilters(filter.Default().WithWeeks(cfg.DefaultWeeks)),
	)
	return s, nil
}

func (s *session) Close() error {
	err := s.slot.Close()
	s.closeLog()
	return err
}

func (s *session) closeLog() {
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
}

// openLogger appends to path so log lines never land on the terminal the
// command draws on. verbose sends them to stderr instead.
func openLogger(path string, verbose bool) (*log.Logger, io.Closer, error) {
	if verbose {
		return log.New(os.Stderr, "calboard: ", log.LstdFlags), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "calboard: ", log.LstdFlags), f, nil
}

var errAmbiguousID = errors.New("ambiguous task id")

// resolveID accepts a full id or a unique prefix of one.
func resolveID(s engine.Snapshot, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if _, ok := s.Task(prefix); ok {
		return prefix, nil
	}
	var found []string
	for _, t := range s.Tasks {
		if prefix != "" && strings.HasPrefix(t.ID, prefix) {
			found = append(found, t.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no task with id %q", prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d tasks", errAmbiguousID, prefix, len(found))
	}
}
