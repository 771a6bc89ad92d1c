package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/repository"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// cartRepository keeps each slot in <dir>/<slot>.json. Writes go to a temp file in the
// same directory and are renamed into place.
type cartRepository struct {
	dir string
}

func NewCartRepository(dir string) (repository.CartRepository, error) {
	if dir == "" {
		return nil, errors.New("cart directory must not be empty")
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create cart directory %s: %w", dir, err)
	}
	return &cartRepository{dir: dir}, nil
}

func (r *cartRepository) path(slot string) string {
	return filepath.Join(r.dir, filepath.Base(slot)+".json")
}

func (r *cartRepository) Load(_ context.Context, slot string) ([]entity.CartItem, error) {
	data, err := os.ReadFile(r.path(slot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cart slot %s: %w", slot, err)
	}

	var items []entity.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart slot %s: %w: %w", slot, repository.ErrCorrupted, err)
	}
	return items, nil
}

func (r *cartRepository) Save(ctx context.Context, slot string, items []entity.CartItem) error {
	if slot == "" {
		return errors.New("cannot save cart to an empty slot name")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if items == nil {
		items = []entity.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart slot %s: %w", slot, err)
	}

	tmp, err := os.CreateTemp(r.dir, filepath.Base(slot)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for cart slot %s: %w", slot, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write cart slot %s: %w", slot, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync cart slot %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cart slot %s: %w", slot, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("failed to chmod cart slot %s: %w", slot, err)
	}
	if err := os.Rename(tmpName, r.path(slot)); err != nil {
		return fmt.Errorf("failed to replace cart slot %s: %w", slot, err)
	}
	return nil
}
