package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	logx "schoolnews/pkg/logx"
)

// fileKV is a dependency-free local fallback backend.
//
// All keys live in one JSON object at Path. Every Set rewrites the file via
// tmp + rename so a crash never leaves a half-written snapshot. Get re-reads
// the file, so edits made by another process are picked up.
type fileKV struct {
	log  logx.Logger
	path string

	mu sync.Mutex
}

func openFileKV(cfg LocalConfig, log logx.Logger) (KV, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("local.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	kv := &fileKV{log: log.With(logx.String("driver", "file")), path: path}
	// Fail early on an unreadable snapshot rather than on the first write.
	if _, err := kv.load(); err != nil {
		return nil, err
	}
	return kv, nil
}

func (s *fileKV) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (s *fileKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	m[key] = value
	return s.writeLocked(m)
}

func (s *fileKV) load() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	m := map[string]string{}
	if len(strings.TrimSpace(string(b))) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("local store %s: %w", s.path, err)
	}
	return m, nil
}

func (s *fileKV) writeLocked(m map[string]string) error {
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(m); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	s.log.Debug("local snapshot written", logx.String("path", s.path), logx.Int("keys", len(m)))
	return nil
}
