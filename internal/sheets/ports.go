// Package sheets defines the outbound port to the spreadsheet holding the
// mirrored expense rows.
package sheets

import "context"

// Mirror appends expense rows to a chat-bound spreadsheet and clears
// previously written ranges. The spreadsheet id is resolved per invocation
// from the chat's session, so it is an argument rather than client state.
type Mirror interface {
	// Append writes rows below the Records sheet and returns the exact
	// range written, in A1 notation.
	Append(ctx context.Context, spreadsheetID string, rows [][]string) (updatedRange string, err error)
	// Clear empties the cell contents of rng without touching the row
	// structure.
	Clear(ctx context.Context, spreadsheetID, rng string) error
}
