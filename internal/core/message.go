package core

import (
	"fmt"
	"regexp"
)

// Confirmation message labels. ParseConfirmation is deliberately coupled to
// the exact text ConfirmationMessage produces: the delete flow reads the
// expense fields back out of the message the bot sent earlier.
var (
	confCategoryRe    = regexp.MustCompile(`Categoría: (.+)`)
	confDateRe        = regexp.MustCompile(`Fecha: (.+)`)
	confDescriptionRe = regexp.MustCompile(`Descripción: (.+)`)
	confAmountRe      = regexp.MustCompile(`Monto: \$(\d+)`)
)

// ConfirmationMessage builds the reply sent after an expense is recorded.
// updatedRange is the spreadsheet range reported by the append call.
func ConfirmationMessage(e Expense, updatedRange string) string {
	return fmt.Sprintf(
		"✅ Registro agregado exitosamente:\n"+
			"📂 Categoría: %s\n"+
			"📅 Fecha: %s\n"+
			"📝 Descripción: %s\n"+
			"💰 Monto: $%s\n"+
			"📊 Celda: %s",
		e.Category, e.Date, e.Description, e.Amount, updatedRange)
}

// ParseConfirmation extracts the four labeled fields from a confirmation
// message. It fails when any label is absent.
func ParseConfirmation(text string) (ExpenseMatch, error) {
	var m ExpenseMatch
	fields := []struct {
		re   *regexp.Regexp
		dst  *string
		name string
	}{
		{confCategoryRe, &m.Category, "category"},
		{confDateRe, &m.Date, "date"},
		{confDescriptionRe, &m.Description, "description"},
		{confAmountRe, &m.Amount, "amount"},
	}
	for _, f := range fields {
		sub := f.re.FindStringSubmatch(text)
		if sub == nil {
			return ExpenseMatch{}, fmt.Errorf("%w: missing %s", ErrMalformedConfirmation, f.name)
		}
		*f.dst = sub[1]
	}
	return m, nil
}
