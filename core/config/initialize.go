package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir. An existing
// configuration is never overwritten.
func Initialize(fsys afero.Fs, dir string, logger *log.Logger) error {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(dir, ConfigurationName)
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s: %w", path, fs.ErrExist)
	}

	fd, err := fsys.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := fd.Write(defaultConfigData); err != nil {
		fd.Close()
		return err
	}
	if err := fd.Close(); err != nil {
		return err
	}

	logger.Info("wrote default configuration", "path", path)
	return nil
}
