package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvSlot keeps each key as one file under a base directory.
type DiskvSlot struct {
	d *diskv.Diskv
}

func OpenDiskv(basePath string) (*DiskvSlot, error) {
	if basePath == "" {
		return nil, errors.New("storage: base path is empty")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &DiskvSlot{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
	}, nil
}

func (s *DiskvSlot) Read(key string) ([]byte, error) {
	return s.d.Read(key)
}

func (s *DiskvSlot) Write(key string, data []byte) error {
	return s.d.Write(key, data)
}

// Close is a no-op; every Write already reached disk.
func (s *DiskvSlot) Close() error {
	return nil
}
