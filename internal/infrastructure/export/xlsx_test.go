package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/approval-path/internal/domain/approval"
	"github.com/garyjia/approval-path/internal/domain/entity"
)

func TestXLSXExporter_Export(t *testing.T) {
	expense := &entity.Expense{ID: "EXP-2023-004", Title: "Client Workshop Catering", Amount: 2400, Status: "finance_approval"}
	steps := []approval.Step{
		{Title: "Requested", Status: approval.StepApproved, Approvers: []approval.ApproverView{}, Marker: true},
		{
			Title:  "Manager Approval - Level 1",
			Status: approval.StepApproved,
			Approvers: []approval.ApproverView{
				{Name: "Priya Nair", Role: "line_manager", Approved: true, ApprovedBy: "Priya Nair", IsCompleted: true, Remark: "Within travel policy."},
			},
		},
		{
			Title:  "Finance Approval - Level 1",
			Status: approval.StepCurrent,
			Approvers: []approval.ApproverView{
				{Name: "Tom Berg", Role: "finance_manager", IsCurrentPointer: true},
				{Name: "Ines Duarte", Role: "controller", ApprovedBy: "ignored without approval"},
			},
		},
	}

	exporter := NewXLSXExporter(zap.NewNop())
	var buf bytes.Buffer
	require.NoError(t, exporter.Export(context.Background(), &buf, expense, steps))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 8)

	assert.Equal(t, "EXP-2023-004: Client Workshop Catering", rows[0][0])
	assert.Equal(t, []string{"Amount", "2400", "Current Status", "Finance Approval"}, rows[1])
	assert.Equal(t, columns, rows[3])

	assert.Equal(t, []string{"Requested", "Approved", "", "", "", "", "No approval needed at this stage"}, rows[4])
	assert.Equal(t, []string{"Manager Approval - Level 1", "Approved", "Priya Nair", "Line Manager", "Priya Nair", "Yes", "Within travel policy."}, rows[5])
	assert.Equal(t, []string{"Finance Approval - Level 1", "Current", "Tom Berg", "Finance Manager", "", "No"}, rows[6])
	assert.Equal(t, []string{"Finance Approval - Level 1", "Current", "Ines Duarte", "Controller", "", "No"}, rows[7])

	for cell, want := range map[string]bool{"A1": true, "A2": false, "B2": false, "D2": false, "A4": true, "G4": true} {
		assert.Equal(t, want, isBold(t, f, cell), cell)
	}
}

func isBold(t *testing.T, f *excelize.File, cell string) bool {
	t.Helper()
	idx, err := f.GetCellStyle(SheetName, cell)
	require.NoError(t, err)
	style, err := f.GetStyle(idx)
	require.NoError(t, err)
	return style.Font != nil && style.Font.Bold
}

func TestXLSXExporter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	steps := []approval.Step{{Title: "Draft", Status: approval.StepPending}}
	var buf bytes.Buffer
	err := NewXLSXExporter(zap.NewNop()).Export(ctx, &buf, &entity.Expense{ID: "X"}, steps)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestXLSXExporter_Metadata(t *testing.T) {
	x := NewXLSXExporter(zap.NewNop())
	assert.Equal(t, "xlsx", x.Extension())
	assert.Contains(t, x.ContentType(), "spreadsheetml")
}
