package http

import (
	"embed"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/garyjia/approval-path/internal/domain/approval"
	"github.com/garyjia/approval-path/internal/domain/entity"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var amountPrinter = message.NewPrinter(language.English)

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"humanize":       approval.Humanize,
		"statusColor":    entity.StatusColor,
		"stepColor":      stepColor,
		"connectorColor": connectorColor,
		"money":          formatMoney,
		"last":           func(i, n int) bool { return i == n-1 },
	}).ParseFS(templateFS, "templates/*.tmpl")
}

// stepColor returns the timeline node color of a step
func stepColor(status approval.StepStatus) string {
	switch status {
	case approval.StepApproved:
		return "emerald"
	case approval.StepCurrent:
		return "blue"
	default:
		return "slate"
	}
}

// connectorColor returns the color of the line drawn below a step
func connectorColor(status approval.StepStatus) string {
	if status == approval.StepApproved {
		return "emerald"
	}
	return "slate"
}

func formatMoney(amount float64) string {
	return amountPrinter.Sprintf("$%.2f", amount)
}
