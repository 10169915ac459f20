package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/approval-path/internal/application/port"
	"github.com/garyjia/approval-path/internal/domain/approval"
	"github.com/garyjia/approval-path/internal/domain/entity"
)

// SheetName is the worksheet the approval path is written to
const SheetName = "Approval Path"

// headerRow is the row holding column titles; steps start below it
const headerRow = 4

var columns = []string{"Step", "Status", "Approver", "Role", "Approved By", "Completed", "Remark"}

// statusFill maps step status to the row background used in the workbook
var statusFill = map[approval.StepStatus]string{
	approval.StepApproved: "D1FAE5",
	approval.StepCurrent:  "DBEAFE",
	approval.StepPending:  "F1F5F9",
	approval.StepSkipped:  "F1F5F9",
}

// XLSXExporter writes an approval path as a spreadsheet, one row per approver
type XLSXExporter struct {
	logger *zap.Logger
}

// NewXLSXExporter creates a new spreadsheet exporter
func NewXLSXExporter(logger *zap.Logger) *XLSXExporter {
	return &XLSXExporter{logger: logger}
}

// ContentType returns the MIME type of the produced workbook
func (x *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension returns the file extension of the produced workbook
func (x *XLSXExporter) Extension() string {
	return "xlsx"
}

// Export writes the workbook to w
func (x *XLSXExporter) Export(ctx context.Context, w io.Writer, expense *entity.Expense, steps []approval.Step) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	x.setCell(f, "A1", fmt.Sprintf("%s: %s", expense.ID, expense.Title))
	x.setCell(f, "A2", "Amount")
	x.setCell(f, "B2", expense.Amount)
	x.setCell(f, "C2", "Current Status")
	x.setCell(f, "D2", approval.Humanize(expense.Status))

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	for i, title := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		x.setCell(f, cell, title)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(SheetName, "A1", "A1", bold); err != nil {
		return fmt.Errorf("failed to style title: %w", err)
	}
	if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	fills, err := x.fillStyles(f)
	if err != nil {
		return err
	}

	row := headerRow + 1
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, values := range stepRows(step) {
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				x.setCell(f, cell, v)
			}
			if style, ok := fills[step.Status]; ok {
				if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), style); err != nil {
					x.logger.Warn("Failed to set row style",
						zap.Int("row", row),
						zap.Error(err))
				}
			}
			row++
		}
	}

	x.setColWidth(f, "A", "A", 32)
	x.setColWidth(f, "B", "F", 16)
	x.setColWidth(f, "G", "G", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	x.logger.Info("Approval path workbook written",
		zap.String("expense_id", expense.ID),
		zap.Int("steps", len(steps)),
		zap.Int("rows", row-headerRow-1))

	return nil
}

// stepRows flattens a step into sheet rows. Marker steps produce one row.
func stepRows(step approval.Step) [][]interface{} {
	status := approval.Humanize(step.Status.String())
	if len(step.Approvers) == 0 {
		return [][]interface{}{{step.Title, status, "", "", "", "", "No approval needed at this stage"}}
	}

	rows := make([][]interface{}, 0, len(step.Approvers))
	for _, a := range step.Approvers {
		approvedBy := ""
		if a.Approved {
			approvedBy = a.ApprovedBy
		}
		rows = append(rows, []interface{}{
			step.Title,
			status,
			a.Name,
			approval.Humanize(a.Role),
			approvedBy,
			yesNo(a.IsCompleted),
			strings.TrimSpace(a.Remark),
		})
	}
	return rows
}

func (x *XLSXExporter) fillStyles(f *excelize.File) (map[approval.StepStatus]int, error) {
	styles := make(map[approval.StepStatus]int, len(statusFill))
	for status, color := range statusFill {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s style: %w", status, err)
		}
		styles[status] = id
	}
	return styles, nil
}

// setCell sets a cell value in the approval path sheet
func (x *XLSXExporter) setCell(f *excelize.File, cell string, value interface{}) {
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		x.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func (x *XLSXExporter) setColWidth(f *excelize.File, from, to string, width float64) {
	if err := f.SetColWidth(SheetName, from, to, width); err != nil {
		x.logger.Warn("Failed to set column width",
			zap.String("columns", from+":"+to),
			zap.Error(err))
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Verify interface compliance
var _ port.TimelineExporter = (*XLSXExporter)(nil)
