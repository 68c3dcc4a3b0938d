// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package uploads

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildRequest assembles a multipart body carrying one pdfFile part.
func buildRequest(t *testing.T, filename, contentType string, content []byte) (body *bytes.Buffer, formType string) {
	t.Helper()

	body = &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="pdfFile"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return body, w.FormDataContentType()
}

func pdfBytes(size int) []byte {
	content := make([]byte, size)
	copy(content, "%PDF-1.4\n")
	return content
}

func acceptFile(t *testing.T, m *Manager, filename, contentType string, content []byte) (*StoredFile, error) {
	t.Helper()

	body, formType := buildRequest(t, filename, contentType, content)
	req := httptest.NewRequest("POST", "/api/save-resource", body)
	req.Header.Set("Content-Type", formType)
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatal(err)
	}
	return m.Accept(req)
}

func newTestManager(t *testing.T, maxSize int64) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), maxSize)
	if err != nil {
		t.Fatalf("NewManager(): %v", err)
	}
	return m
}

func TestAcceptStoresPDF(t *testing.T) {
	m := newTestManager(t, 1<<20)

	stored, err := acceptFile(t, m, "calculus notes.pdf", "application/pdf", pdfBytes(1024))
	if err != nil {
		t.Fatalf("Accept(): %v", err)
	}

	if !strings.HasPrefix(stored.URL, "/uploads/") {
		t.Errorf("URL = %q, want /uploads/ prefix", stored.URL)
	}
	if strings.Contains(stored.Name, " ") {
		t.Errorf("stored name contains whitespace: %q", stored.Name)
	}
	if !strings.HasSuffix(stored.Name, "calculus_notes.pdf") {
		t.Errorf("stored name = %q, want calculus_notes.pdf suffix", stored.Name)
	}
	if stored.Size != 1024 {
		t.Errorf("Size = %d, want 1024", stored.Size)
	}

	if _, err := os.Stat(filepath.Join(m.Dir(), stored.Name)); err != nil {
		t.Errorf("stored file missing on disk: %v", err)
	}
}

func TestAcceptRejectsWrongContentType(t *testing.T) {
	m := newTestManager(t, 1<<20)

	_, err := acceptFile(t, m, "notes.pdf", "image/png", pdfBytes(100))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestAcceptRejectsNonPDFContent(t *testing.T) {
	m := newTestManager(t, 1<<20)

	// Declared type lies; the sniffed magic bytes must win.
	_, err := acceptFile(t, m, "notes.pdf", "application/pdf", []byte("<html>not a pdf</html>"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}

	// Nothing may remain on disk after a rejection.
	entries, readErr := os.ReadDir(m.Dir())
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("rejected upload left %d files behind", len(entries))
	}
}

func TestAcceptRejectsOversizeFile(t *testing.T) {
	m := newTestManager(t, 512)

	_, err := acceptFile(t, m, "big.pdf", "application/pdf", pdfBytes(1024))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"calculus notes.pdf", "calculus_notes.pdf"},
		{"a\tb\nc.pdf", "a_b_c.pdf"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\evil.pdf", "evil.pdf"},
		{".hidden.pdf", "hidden.pdf"},
		{"...", "upload.pdf"},
		{"", "upload.pdf"},
	}

	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRemove(t *testing.T) {
	m := newTestManager(t, 1<<20)

	stored, err := acceptFile(t, m, "notes.pdf", "application/pdf", pdfBytes(100))
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Remove(stored.Name); err != nil {
		t.Fatalf("Remove(): %v", err)
	}
	if _, err := os.Stat(filepath.Join(m.Dir(), stored.Name)); !os.IsNotExist(err) {
		t.Error("file still present after Remove")
	}

	// Removing an already-gone file is not an error.
	if err := m.Remove(stored.Name); err != nil {
		t.Errorf("Remove() of missing file: %v", err)
	}
}

func TestOpenRefusesUnsafeNames(t *testing.T) {
	m := newTestManager(t, 1<<20)

	for _, name := range []string{".hidden", "../escape.pdf", "a/b.pdf", "a\\b.pdf", ""} {
		if _, err := m.Open(name); err == nil {
			t.Errorf("Open(%q) succeeded, want error", name)
		}
	}
}
