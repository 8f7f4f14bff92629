package ingestion

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
)

// Walk returns every regular file under root whose extension equals ext,
// recursing into subdirectories in lexical order. Hidden files and
// directories are skipped. Unreadable subdirectories are logged and skipped;
// an unreadable root is an error.
func (p *Pipeline) Walk(root string, ext string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			p.logger.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), ext) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitUsage, "walking corpus %s: %v", root, err)
	}
	return paths, nil
}

// Fingerprint digests the path, size and modification time of every file so
// cached results can be tied to one exact corpus state.
func Fingerprint(paths []string) (string, error) {
	h := xxhash.New()
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("fingerprinting %s: %w", path, err)
		}
		h.WriteString(path)
		h.WriteString("\x00")
		h.WriteString(strconv.FormatInt(info.Size(), 10))
		h.WriteString("\x00")
		h.WriteString(strconv.FormatInt(info.ModTime().UnixNano(), 10))
		h.WriteString("\n")
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}
