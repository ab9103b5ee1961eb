package bot

import "fmt"

// User-facing reply texts. The confirmation for a recorded expense lives in
// core because the delete flow parses it back.
const (
	replySheetSaved = "✅ Google Sheet ID guardado correctamente. Ya puedes registrar tus gastos, selecciona una categoría:"
	replySheetError = "Error al guardar el Google Sheet ID"

	replyPickCategoryFirst = "❗ Por favor selecciona una categoría antes de registrar un gasto. 📝"

	replyFormatHelp = "❌ Formato inválido. Por favor, envía un mensaje en el formato:\n📝 DD-MM descripción monto\n✨ O simplemente: descripción monto"

	deleteButtonText = "Eliminar"
	deleteAction     = "delete_record"
)

func replyAskSheetURL(operatorEmail string) string {
	return "📝 Ingresa la URL de tu Google Sheet para registrar tus gastos" +
		"\n\n📧 Debes compartir el Google Sheet con el correo: " + operatorEmail
}

func replyCategoryMenu(userName string) string {
	return fmt.Sprintf("Hola @%s, selecciona una categoría:", userName)
}

func replyCategorySelected(category string) string {
	return fmt.Sprintf("✅ Has seleccionado la categoría: %s 📂\n📝 Ahora envía un mensaje en el formato:\n📍 DD-MM descripción monto 💰", category)
}
