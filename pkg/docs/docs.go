// Package docs is the document-creation collaborator. The router treats
// document creation as opaque: it hands over title and content and
// relays the result.
package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Document describes a created document.
type Document struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Creator is the document-creation contract.
type Creator interface {
	CreateDocument(ctx context.Context, title, content, folderHint string) (*Document, error)
}

// FSCreator writes documents as markdown files under a base directory,
// optionally sharded into a hinted folder.
type FSCreator struct {
	BaseDir string
}

// NewFSCreator creates a filesystem-backed document creator.
func NewFSCreator(baseDir string) (*FSCreator, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Join(home, ".taskgate", "documents")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}
	return &FSCreator{BaseDir: baseDir}, nil
}

// CreateDocument writes the document and returns its id, title and a
// file URL.
func (c *FSCreator) CreateDocument(_ context.Context, title, content, folderHint string) (*Document, error) {
	dir := c.BaseDir
	if folderHint != "" {
		dir = filepath.Join(dir, sanitize(folderHint))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create document folder: %w", err)
		}
	}

	id := uuid.NewString()
	name := sanitize(title)
	if name == "" {
		name = "untitled"
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", name, id[:8]))

	body := fmt.Sprintf("# %s\n\n%s\n", title, content)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	return &Document{
		ID:    id,
		Title: title,
		URL:   "file://" + path,
	}, nil
}

// sanitize reduces a title or folder hint to a safe file name.
func sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			sb.WriteRune('-')
		}
	}
	return strings.Trim(sb.String(), "-")
}
