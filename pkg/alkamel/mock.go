package alkamel

import "io"

// MockReader is a Reader for testing that returns canned entries.
type MockReader struct {
	entries []Entry
	err     error
}

// MockOption configures the mock reader
type MockOption func(*MockReader)

// WithEntries sets the entries to return
func WithEntries(entries []Entry) MockOption {
	return func(m *MockReader) {
		m.entries = entries
	}
}

// WithError sets an error to return from ReadResults
func WithError(err error) MockOption {
	return func(m *MockReader) {
		m.err = err
	}
}

// NewMockReader creates a mock reader
func NewMockReader(opts ...MockOption) *MockReader {
	m := &MockReader{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ReadResults returns the canned entries without touching r.
func (m *MockReader) ReadResults(_ io.Reader) ([]Entry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}
