// Package upload decides which uploaded images are kept and under what name.
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/vbonduro/phonecat/internal/imagestore"
)

// Helper filters uploads by extension and writes accepted ones to an
// ImageStore under their sanitized name.
type Helper struct {
	store   imagestore.ImageStore
	allowed map[string]bool
	logger  *slog.Logger
}

func NewHelper(store imagestore.ImageStore, allowedExts []string, logger *slog.Logger) *Helper {
	allowed := make(map[string]bool, len(allowedExts))
	for _, ext := range allowedExts {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &Helper{store: store, allowed: allowed, logger: logger}
}

// Save stores r when filename carries an allowed extension and returns the
// stored name. A rejected file is not an error: ok is false and nothing is
// written.
func (h *Helper) Save(ctx context.Context, filename string, r io.Reader) (stored string, ok bool, err error) {
	if !AllowedFile(filename, h.allowed) {
		h.logger.Info("skipping upload with unsupported extension", "filename", filename)
		return "", false, nil
	}

	name := SanitizeFilename(filename)
	if name == "" {
		h.logger.Info("skipping upload with unusable filename", "filename", filename)
		return "", false, nil
	}

	stored, err = h.store.Save(ctx, name, r)
	if err != nil {
		return "", false, fmt.Errorf("failed to save image %q: %w", name, err)
	}
	h.logger.Debug("image saved", "filename", stored)
	return stored, true, nil
}

// AllowedFile reports whether filename has an extension, compared
// case-insensitively, that appears in allowed.
func AllowedFile(filename string, allowed map[string]bool) bool {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return false
	}
	return allowed[strings.ToLower(filename[idx+1:])]
}

// SanitizeFilename turns an arbitrary client-supplied name into one that is
// safe to use as a single path component. Non-ASCII characters are folded or
// dropped, separators and whitespace become underscores, anything outside
// [A-Za-z0-9_.-] is removed and leading or trailing dots and underscores are
// trimmed. The result may be empty.
func SanitizeFilename(name string) string {
	folded := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		if r == '/' || r == '\\' {
			return ' '
		}
		return r
	}, norm.NFKD.String(name))

	joined := strings.Join(strings.Fields(folded), "_")

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, joined)

	return strings.Trim(cleaned, "._")
}
