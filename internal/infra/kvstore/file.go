package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"app/internal/gateway"
)

// 1ファイルのJSONに全キーを持つKVストア。端末ローカル保存の置き換え。
// 書き込みは一時ファイル＋renameで、途中クラッシュしても壊れた状態を残さない。
type File struct {
	mu   sync.Mutex
	path string
	m    map[string]string
}

func NewFile(path string) (*File, error) {
	s := &File{path: path, m: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	if err := json.Unmarshal(data, &s.m); err != nil {
		// 壊れたファイルは空から作り直す
		s.m = make(map[string]string)
	}
	return s, nil
}

func (s *File) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.m[key]
	if !ok {
		return "", gateway.ErrKeyNotFound
	}
	return v, nil
}

func (s *File) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[key] = value
	return s.flushLocked()
}

func (s *File) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, key)
	return s.flushLocked()
}

func (s *File) flushLocked() error {
	data, err := json.Marshal(s.m)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return os.Rename(tmp, s.path)
}
