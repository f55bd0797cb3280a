package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	appErrors "github.com/aaravmahajanofficial/wholesale-cart-engine/errors"
	"github.com/aaravmahajanofficial/wholesale-cart-engine/models"
)

// fileStorage keeps the cart as a single JSON document on disk, the local
// analogue of the device key-value store the cart originally lived in.
type fileStorage struct {
	path string
}

func NewFileStorage(path string) Storage {
	return &fileStorage{path: path}
}

func (f *fileStorage) Load(_ context.Context) (*models.Cart, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}

		return nil, false, appErrors.StorageError("Failed to read cart file").WithError(err)
	}

	cart := &models.Cart{}
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, false, appErrors.StorageError("Failed to unmarshal stored cart").WithError(err)
	}

	return cart, true, nil
}

// Save writes to a temp file and renames it over the target, so a crash
// mid-write never leaves a torn cart behind.
func (f *fileStorage) Save(_ context.Context, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return appErrors.StorageError("Failed to marshal cart").WithError(err)
	}

	dir := filepath.Dir(f.path)

	tmp, err := os.CreateTemp(dir, ".cart-*.json")
	if err != nil {
		return appErrors.StorageError("Failed to create temp cart file").WithError(err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return appErrors.StorageError("Failed to write cart file").WithError(err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return appErrors.StorageError("Failed to close cart file").WithError(err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())

		return appErrors.StorageError("Failed to replace cart file").WithError(err)
	}

	return nil
}

func (f *fileStorage) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return appErrors.StorageError("Failed to remove cart file").WithError(err)
	}

	return nil
}

func (f *fileStorage) Close() error {
	return nil
}
