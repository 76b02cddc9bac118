// Package gift loads the read-only gift catalog from gzipped JSON-lines
// files, either on local disk or in S3.
package gift

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"promo-admin/internal/model"
)

// Loader reads one catalog file.
type Loader interface {
	// Load reads the gzipped catalog at path. Each non-blank line holds one
	// JSON-encoded gift.
	Load(ctx context.Context, path string) ([]model.Gift, error)
}

// decode reads gzipped JSON lines from r. source names r in errors.
func decode(ctx context.Context, r io.Reader, source string) ([]model.Gift, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var gifts []model.Gift
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var g model.Gift
		if err := json.Unmarshal(line, &g); err != nil {
			return nil, fmt.Errorf("invalid gift on line %d of %s: %w", lineNo, source, err)
		}
		if g.ID <= 0 || g.Name == "" || g.Remaining < 0 {
			return nil, fmt.Errorf("invalid gift on line %d of %s: id, name and non-negative remaining are required", lineNo, source)
		}
		gifts = append(gifts, g)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading gift file %s: %w", source, err)
	}

	return gifts, nil
}
