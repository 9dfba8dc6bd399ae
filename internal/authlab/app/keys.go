package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/aussiebroadwan/authlab/internal/authlab/service"
	"github.com/aussiebroadwan/authlab/pkg/jwtx"
)

// LoadSigningKeys reads the dataset signing key written by generate. A
// missing file is not an error: it returns nil and token checks are skipped.
func LoadSigningKeys(path string, logger *slog.Logger) (*jwtx.KeySet, error) {
	if path == "" {
		return nil, nil
	}
	pemKey, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("signing key not found, session tokens will not be verified", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	keys, err := service.KeySetFromPEM(pemKey)
	if err != nil {
		return nil, err
	}
	logger.Info("signing key loaded", "path", path)
	return keys, nil
}

// writeSigningKey stores the dataset key next to the database so the
// snapshot can be validated later. The key is private, hence 0600.
func writeSigningKey(path string, seed uint64) error {
	pemKey, _, err := service.DatasetSigningKey(seed)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, pemKey, 0o600); err != nil {
		return fmt.Errorf("write signing key: %w", err)
	}
	return nil
}
