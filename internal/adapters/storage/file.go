package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/netninja/pkg/logger"
	"github.com/okian/netninja/pkg/metrics"
)

// CorruptSuffix is appended to a save file that failed to decode.
const CorruptSuffix = ".corrupt"

// File keeps every key in one JSON object on disk. Each write rewrites the
// file through a temp file and rename, so a crash leaves the old or the new
// content, never a torn one.
type File struct {
	mu   sync.Mutex
	path string
	m    map[string]string
}

// NewFile loads path, treating a missing file as empty. A file that does not
// decode is moved to path+".corrupt" and the store starts empty.
func NewFile(path string, opts ...Option) (*File, error) {
	o := newOptions(opts)
	s := &File{path: path, m: make(map[string]string)}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, err
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.m); err != nil {
		s.m = make(map[string]string)
		metrics.RecordStorageError("parse")
		ctx := context.Background()
		o.log.Warn(ctx, "storage file unreadable, starting empty",
			logger.String("path", path),
			logger.Error(fmt.Errorf("%w: %v", ErrCorrupt, err)))
		if rerr := os.Rename(path, path+CorruptSuffix); rerr != nil {
			o.log.Warn(ctx, "could not set corrupt file aside", logger.Error(rerr))
		}
	}
	return s, nil
}

func (s *File) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *File) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.m[key]
	s.m[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.m[key] = prev
		} else {
			delete(s.m, key)
		}
		return err
	}
	return nil
}

func (s *File) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.m[key]
	if !had {
		return nil
	}
	delete(s.m, key)
	if err := s.flush(); err != nil {
		s.m[key] = prev
		return err
	}
	return nil
}

func (s *File) Close() error { return nil }

// flush must be called with s.mu held.
func (s *File) flush() error {
	raw, err := json.MarshalIndent(s.m, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}
