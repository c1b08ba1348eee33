package cart

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"

	"farmfresh-market/internal/domain"
)

// FileSnapshots stores one JSON file per cart key under a directory, for
// embedders that want a durable local cart without a database. Writes are
// whole-object replaces via a temp file rename.
type FileSnapshots struct {
	dir string
}

// NewFileSnapshots creates the directory if needed.
func NewFileSnapshots(dir string) (*FileSnapshots, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create snapshot dir")
	}
	return &FileSnapshots{dir: dir}, nil
}

// Save writes the full cart snapshot for the key.
func (f *FileSnapshots) Save(key string, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "write snapshot")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, "replace snapshot")
	}
	return nil
}

// Load returns the stored cart for the key, (nil, nil) when absent, and
// (nil, nil) for an undecodable snapshot: an old or corrupt shape is treated
// the same as no snapshot rather than failing startup.
func (f *FileSnapshots) Load(key string) (*domain.Cart, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read snapshot")
	}
	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, nil
	}
	return &cart, nil
}

func (f *FileSnapshots) path(key string) string {
	// Keys may carry a user suffix ("farmFreshCart:<id>"); keep them filesystem-safe.
	name := strings.NewReplacer(":", "_", "/", "_").Replace(key)
	return filepath.Join(f.dir, name+".json")
}
