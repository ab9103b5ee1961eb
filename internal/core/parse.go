package core

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the wire format for expense dates.
const DateLayout = "02-01-2006"

var (
	expenseDatedRe   = regexp.MustCompile(`^(\d{1,2}-\d{1,2}) (.+) (\d+)$`)
	expenseUndatedRe = regexp.MustCompile(`^(.+) (\d+)$`)
	sheetURLRe       = regexp.MustCompile(`^https://docs\.google\.com/spreadsheets/d/[A-Za-z0-9]`)
	sheetIDRe        = regexp.MustCompile(`https://docs\.google\.com/spreadsheets/d/([A-Za-z0-9_-]+)`)
	cellRangeRe      = regexp.MustCompile(`([A-Z]+\d+:[A-Z]+\d+)`)
)

// ExpenseLine is the structured form of a free-text expense message.
type ExpenseLine struct {
	Date        string // DD-MM-YYYY
	Description string
	Amount      string
}

// IsStartCommand reports whether text is the /start command,
// case-insensitively.
func IsStartCommand(text string) bool {
	return strings.EqualFold(text, "/start")
}

// IsSheetURL reports whether text looks like a Google Sheets document URL.
func IsSheetURL(text string) bool {
	return sheetURLRe.MatchString(text)
}

// ExtractSheetID pulls the spreadsheet identifier out of a Google Sheets
// URL. It returns "" when the URL does not carry a well-formed identifier.
func ExtractSheetID(text string) string {
	m := sheetIDRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// ParseExpenseLine classifies text as an expense entry. The dated form
// "DD-MM description amount" is tried first; the year is taken from now.
// The undated form "description amount" uses now as the date. The last
// whitespace-delimited run of digits is the amount; the description keeps
// any internal whitespace.
func ParseExpenseLine(text string, now time.Time) (ExpenseLine, bool) {
	if m := expenseDatedRe.FindStringSubmatch(text); m != nil {
		return ExpenseLine{
			Date:        m[1] + "-" + now.Format("2006"),
			Description: m[2],
			Amount:      m[3],
		}, true
	}
	if m := expenseUndatedRe.FindStringSubmatch(text); m != nil {
		return ExpenseLine{
			Date:        now.Format(DateLayout),
			Description: m[1],
			Amount:      m[2],
		}, true
	}
	return ExpenseLine{}, false
}

// ExtractCellRange finds the first A1-style range token (e.g. "A5:D5")
// anywhere in text. Returns "" when none is present.
func ExtractCellRange(text string) string {
	return cellRangeRe.FindString(text)
}
