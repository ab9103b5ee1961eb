// Package memory is an in-process spreadsheet fake returning synthetic
// ranges, for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	ports "gastobot/internal/sheets"
)

// Ensure interface conformance
var _ ports.Mirror = (*Mirror)(nil)

type Mirror struct {
	mu      sync.Mutex
	rows    map[string][][]string // spreadsheetID -> appended rows
	cleared []string              // "<spreadsheetID>:<range>" in call order
	nextRow int
}

func New() *Mirror {
	return &Mirror{rows: make(map[string][][]string), nextRow: 1}
}

// Append records the rows and fabricates a Records!A<n>:D<n> range the way
// the real append reports it.
func (m *Mirror) Append(_ context.Context, spreadsheetID string, rows [][]string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[spreadsheetID] = append(m.rows[spreadsheetID], rows...)
	first := m.nextRow
	m.nextRow += len(rows)
	last := m.nextRow - 1
	if first == last {
		return fmt.Sprintf("Records!A%d:D%d", first, first), nil
	}
	return fmt.Sprintf("Records!A%d:D%d", first, last), nil
}

// Clear records the cleared range.
func (m *Mirror) Clear(_ context.Context, spreadsheetID, rng string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = append(m.cleared, spreadsheetID+":"+rng)
	return nil
}

// Rows returns the rows appended for a spreadsheet.
func (m *Mirror) Rows(spreadsheetID string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.rows[spreadsheetID]...)
}

// Cleared returns the cleared ranges in call order.
func (m *Mirror) Cleared() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.cleared...)
}
