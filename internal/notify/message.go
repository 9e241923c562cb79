package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const reminderSubject = "Fee Payment Reminder - LibraryHub"

var reminderTemplate = template.Must(template.New("reminder").Parse(`<h2>Fee Payment Reminder</h2>
<p>Dear {{.Name}},</p>
<p>This is a reminder that you have an outstanding fee of <strong>₹{{.Amount}}</strong> due on {{.DueDate}}.</p>
<p>Please ensure payment is made before the due date to avoid late fees.</p>
<p>Thank you,<br>LibraryHub Team</p>
`))

type reminderData struct {
	Name    string
	Amount  string
	DueDate string
}

// renderReminder builds the HTML body of a fee reminder.
func renderReminder(name, amount string, dueDate time.Time) (string, error) {
	var buf bytes.Buffer
	err := reminderTemplate.Execute(&buf, reminderData{
		Name:    name,
		Amount:  amount,
		DueDate: dueDate.Format("2 Jan 2006"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render reminder: %w", err)
	}
	return buf.String(), nil
}
