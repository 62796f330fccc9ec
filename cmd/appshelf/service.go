package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sagarc03/appshelf"
	"github.com/sagarc03/appshelf/config"
	"github.com/sagarc03/appshelf/filesystem"
)

// openService opens the storage root and builds the service on top of it.
// The returned function closes the root.
func openService(cfg *config.Config) (*appshelf.ShelfService, *filesystem.Store, func(), error) {
	storagePath := cfg.Storage.Path
	info, err := os.Stat(storagePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil, fmt.Errorf("storage directory does not exist: %s", storagePath)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("stat storage directory: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, nil, fmt.Errorf("storage path is not a directory: %s", storagePath)
	}

	root, err := os.OpenRoot(storagePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open storage root: %w", err)
	}

	storage := filesystem.NewFileStorage(root)

	service, err := appshelf.NewShelfService(storage, cfg.Storage.ServiceConfig())
	if err != nil {
		_ = root.Close()
		return nil, nil, nil, fmt.Errorf("create service: %w", err)
	}

	return service, storage, func() { _ = root.Close() }, nil
}
