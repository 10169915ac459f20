package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/garyjia/approval-path/internal/domain/approval"
)

const (
	ansiReset = "\033[0m"
	ansiGreen = "\033[32m"
	ansiBlue  = "\033[34m"
	ansiGray  = "\033[90m"
)

// stepPrinter renders steps as an indented timeline
type stepPrinter struct {
	w     io.Writer
	color bool
}

func stepMark(status approval.StepStatus) string {
	switch status {
	case approval.StepApproved:
		return "✓"
	case approval.StepCurrent:
		return "●"
	case approval.StepSkipped:
		return "-"
	default:
		return "○"
	}
}

func stepColor(status approval.StepStatus) string {
	switch status {
	case approval.StepApproved:
		return ansiGreen
	case approval.StepCurrent:
		return ansiBlue
	default:
		return ansiGray
	}
}

func (p *stepPrinter) paint(status approval.StepStatus, s string) string {
	if !p.color {
		return s
	}
	return stepColor(status) + s + ansiReset
}

// Print writes one block per step followed by its approvers
func (p *stepPrinter) Print(steps []approval.Step) {
	if len(steps) == 0 {
		fmt.Fprintln(p.w, "  (no approval steps)")
		return
	}

	width := 0
	for _, s := range steps {
		if len(s.Title) > width {
			width = len(s.Title)
		}
	}

	for _, step := range steps {
		line := fmt.Sprintf("  %s %-*s  %s", stepMark(step.Status), width, step.Title, step.Status)
		fmt.Fprintln(p.w, p.paint(step.Status, line))

		if len(step.Approvers) == 0 {
			fmt.Fprintln(p.w, "      No approval needed at this stage")
			continue
		}
		for _, a := range step.Approvers {
			fmt.Fprintf(p.w, "      %s\n", approverLine(a))
			if a.Remark != "" {
				fmt.Fprintf(p.w, "        %q\n", a.Remark)
			}
		}
	}
}

func approverLine(a approval.ApproverView) string {
	var b strings.Builder
	b.WriteString(a.Name)
	if a.Role != "" {
		fmt.Fprintf(&b, " (%s)", approval.Humanize(a.Role))
	}
	if a.IsCurrentPointer {
		b.WriteString(" [Current Approver]")
	}
	if a.IsCompleted {
		b.WriteString(" [Completed]")
	}
	if a.Approved {
		fmt.Fprintf(&b, " [Approved by: %s]", a.ApprovedBy)
	}
	return b.String()
}
