package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/room-measurements/constants"
)

// FSIngestor reads from the local filesystem.
type FSIngestor struct {
	SkipHidden bool
	logger     *slog.Logger
}

func NewFSIngestor(skipHidden bool, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{SkipHidden: skipHidden, logger: logger}
}

// IngestPath checks one file and hashes its content.
func (i *FSIngestor) IngestPath(ctx context.Context, path string) (FileResult, error) {
	var out FileResult
	if err := ctx.Err(); err != nil {
		return out, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, err
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !AllowedExt(ext) {
		i.logger.Debug("ingest.path.unsupported", "path", abs, "ext", ext)
		return out, fmt.Errorf("unsupported or missing extension: %q", ext)
	}

	f, err := os.Open(abs)
	if err != nil {
		return out, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			i.logger.Warn("ingest.path.close_failed", "path", abs, "err", cerr)
		}
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return out, fmt.Errorf("hash %s: %w", abs, err)
	}

	return FileResult{
		Path:     abs,
		FileType: constants.MapExtToFileType(ext),
		HashHex:  hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// IngestDirectory walks root and returns every supported file in walk
// order. Files whose content repeats an earlier one are marked Deduplicated.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}

	var results []FileResult
	var stats DirStats
	seen := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if i.SkipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path)
		if err != nil {
			results = append(results, FileResult{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		if first, ok := seen[r.HashHex]; ok {
			r.Deduplicated = true
			stats.Deduplicated++
			i.logger.Info("ingest.path.duplicate", "path", r.Path, "same_as", first)
		} else {
			seen[r.HashHex] = r.Path
		}
		results = append(results, r)
		stats.Succeeded++
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	i.logger.Info("ingest.directory.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return results, stats, nil
}
