package core

// CategoryGrid is the fixed category menu, partitioned into rows for the
// Telegram reply keyboard. Membership checks ignore the grouping.
var CategoryGrid = [][]string{
	{"Supermercado", "Almuerzo", "Transporte"},
	{"Metro", "Recreacional", "Ingreso"},
	{"Farmacia", "Ropa", "Vacaciones"},
	{"Apps", "Eventos", "Electronica"},
	{"Otros", "Familia", "Regalos"},
	{"Fintual", "Criptomonedas", "Comision BC"},
	{"Arriendo", "Gasto Común", "Agua"},
	{"Luz", "Internet", "Pension"},
	{"Sueldo"},
}

var categorySet = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, row := range CategoryGrid {
		for _, c := range row {
			set[c] = struct{}{}
		}
	}
	return set
}()

// IsCategory reports whether text is exactly one of the category labels.
func IsCategory(text string) bool {
	_, ok := categorySet[text]
	return ok
}

// Categories returns the flattened category labels in grid order.
func Categories() []string {
	var out []string
	for _, row := range CategoryGrid {
		out = append(out, row...)
	}
	return out
}
