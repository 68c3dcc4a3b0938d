// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

// Package uploads handles PDF file uploads for catalog resources.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// FormFieldName is the multipart form field carrying the PDF.
const FormFieldName = "pdfFile"

var (
	// ErrNoFile is returned when the form carries no file.
	ErrNoFile = errors.New("no file in request")

	// ErrUnsupportedType is returned for anything that is not a PDF.
	ErrUnsupportedType = errors.New("only PDF files are allowed")

	// ErrTooLarge is returned when the file exceeds the size limit.
	ErrTooLarge = errors.New("file exceeds the maximum allowed size")
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// StoredFile describes an upload saved to disk.
type StoredFile struct {
	Name string
	URL  string
	Size int64
}

// Manager saves uploaded PDFs to a directory and serves them back.
type Manager struct {
	dir     string
	maxSize int64
}

// NewManager creates a Manager storing files under dir, rejecting
// files larger than maxSize bytes. The directory is created if absent.
func NewManager(dir string, maxSize int64) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &Manager{dir: dir, maxSize: maxSize}, nil
}

// Dir returns the uploads directory.
func (m *Manager) Dir() string { return m.dir }

// MaxSize returns the per-file size limit in bytes.
func (m *Manager) MaxSize() int64 { return m.maxSize }

// sanitizeFilename makes a client-supplied filename safe to store:
// path separators and NUL are stripped, whitespace runs collapse to a
// single underscore, and leading dots are removed so no stored file is
// ever hidden or escapes the uploads directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "\x00", "")
	name = whitespaceRun.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		name = "upload.pdf"
	}
	return name
}

// Accept reads the PDF from the request's multipart form and stores it
// under a timestamped name. The caller must have parsed the form with
// a MaxBytesReader in place; Accept still enforces the size ceiling on
// the individual file.
func (m *Manager) Accept(r *http.Request) (*StoredFile, error) {
	file, header, err := r.FormFile(FormFieldName)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrNoFile
		}
		return nil, fmt.Errorf("reading form file: %w", err)
	}
	defer file.Close()

	if header.Size > m.maxSize {
		return nil, ErrTooLarge
	}

	declared := header.Header.Get("Content-Type")
	if declared != "" && declared != "application/pdf" {
		return nil, ErrUnsupportedType
	}

	// Sniff the leading bytes rather than trusting the declared type.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	head = head[:n]
	if !strings.HasPrefix(string(head), "%PDF-") {
		return nil, ErrUnsupportedType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding file: %w", err)
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(header.Filename))
	dst, err := os.OpenFile(filepath.Join(m.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating upload file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(file, m.maxSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("writing upload: %w", err)
	}
	if written > m.maxSize {
		os.Remove(dst.Name())
		return nil, ErrTooLarge
	}

	return &StoredFile{
		Name: name,
		URL:  path.Join("/uploads", name),
		Size: written,
	}, nil
}

// Remove deletes a stored file. Used to clean up when the catalog
// write fails after the upload already landed on disk.
func (m *Manager) Remove(name string) error {
	name = filepath.Base(name)
	if name == "." || name == "/" || strings.HasPrefix(name, ".") {
		return fmt.Errorf("refusing to remove %q", name)
	}
	err := os.Remove(filepath.Join(m.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Open opens a stored file for serving. Dotfiles and names containing
// path separators are refused.
func (m *Manager) Open(name string) (*os.File, error) {
	if name == "" || strings.HasPrefix(name, ".") ||
		strings.ContainsAny(name, "/\\") || strings.Contains(name, "\x00") {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(m.dir, name))
}
