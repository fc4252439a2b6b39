package docs

import "context"

// MockCreator records document-creation calls for tests.
type MockCreator struct {
	Calls     int
	LastTitle string
	Err       error
}

// CreateDocument returns a fixed document or the configured error.
func (m *MockCreator) CreateDocument(_ context.Context, title, _, _ string) (*Document, error) {
	m.Calls++
	m.LastTitle = title
	if m.Err != nil {
		return nil, m.Err
	}
	return &Document{ID: "doc-1", Title: title, URL: "file:///tmp/doc-1.md"}, nil
}
