// Package extract reads job descriptions from text, Word and PDF files.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize bounds the files Extract accepts.
const MaxFileSize = 10 << 20

// Extract returns the text of the document at path, chosen by extension:
// .pdf and .docx are decoded and anything else is read as UTF-8 text.
// Runs of whitespace are collapsed.
func Extract(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("%s is too large (%d bytes, max %d)", path, info.Size(), MaxFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return ExtractBytes(content, filepath.Ext(path))
}

// ExtractBytes is Extract for content already in memory. ext includes the
// leading dot and is matched case-insensitively.
func ExtractBytes(content []byte, ext string) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(ext) {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDOCX(content)
	default:
		text = extractPlain(content)
	}
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(text), " "), nil
}
