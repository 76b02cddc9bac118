package gift

import (
	"context"
	"fmt"
	"os"

	"promo-admin/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped catalog files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based gift loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "gift-loader").Logger(),
	}
}

// Load reads a gzipped gift catalog file.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.Gift, error) {
	l.logger.Info().Str("file", filePath).Msg("loading gift file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open gift file")
		return nil, fmt.Errorf("failed to open gift file %s: %w", filePath, err)
	}
	defer file.Close()

	gifts, err := decode(ctx, file, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read gift file")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("gifts_loaded", len(gifts)).
		Msg("gift file loaded successfully")

	return gifts, nil
}
