package document

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/pkg/apperror"

	"github.com/ledongthuc/pdf"
)

// Document is a normalized text record for one source file. It exists only
// for the duration of an ingestion run; the chunker consumes it and the
// original is never stored.
type Document struct {
	// ID is the path of the source file relative to the corpus root.
	// It is stable across runs and used for chunk id derivation.
	ID   string
	Path string
	Text string
}

// Loader reads a corpus directory into Documents. Supported formats are
// plain text (.txt), markdown (.md) and PDF (.pdf). Reading is pure:
// calling Load twice on an unchanged directory yields identical Documents
// in identical order (lexical walk).
type Loader struct {
	log logger.ILogger
}

func NewLoader(log logger.ILogger) *Loader {
	return &Loader{log: log}
}

// Load scans dir and returns one Document per parseable file plus the
// number of files skipped. A missing or unreadable directory is a hard
// load error; a file that cannot be parsed is skipped and logged, and the
// scan continues with the next file.
func (l *Loader) Load(dir string) ([]Document, int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.KindLoad, err, "corpus directory %q is not readable", dir)
	}
	if !info.IsDir() {
		return nil, 0, apperror.New(apperror.KindLoad, "corpus path %q is not a directory", dir)
	}

	var docs []Document
	skipped := 0

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return apperror.Wrap(apperror.KindLoad, walkErr, "walking %q", path)
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !supportedExt(ext) {
			return nil
		}

		text, extractErr := extractText(path, ext)
		if extractErr != nil {
			skipped++
			l.log.Warn("loader", "skipping unparseable file", map[string]interface{}{
				"path":  path,
				"error": extractErr.Error(),
			})
			return nil
		}

		text = normalize(text)
		if text == "" {
			skipped++
			l.log.Warn("loader", "skipping file with no extractable text", map[string]interface{}{
				"path": path,
			})
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}

		docs = append(docs, Document{
			ID:   filepath.ToSlash(rel),
			Path: path,
			Text: text,
		})
		return nil
	})
	if err != nil {
		return nil, skipped, err
	}

	return docs, skipped, nil
}

func supportedExt(ext string) bool {
	switch ext {
	case ".txt", ".md", ".pdf":
		return true
	}
	return false
}

func extractText(path, ext string) (string, error) {
	if ext == ".pdf" {
		return extractPDF(path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func extractPDF(path string) (string, error) {
	f, rdr, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := rdr.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, b); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// normalize collapses Windows line endings and trims outer whitespace so
// chunk boundaries do not depend on the source platform.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text)
}
