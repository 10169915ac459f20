package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/garyjia/approval-path/internal/domain/approval"
	"github.com/garyjia/approval-path/internal/infrastructure/export"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)
	err := app.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "approvalpath version dev")
}

func TestList(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "EXP-2023-001")
	assert.Contains(t, lines[4], "expense_tracked")
}

func TestSteps_Expense(t *testing.T) {
	out, err := run(t, "steps", "--expense", "EXP-2023-004")
	require.NoError(t, err)

	assert.Contains(t, out, "EXP-2023-004: Client Workshop Catering")
	assert.Contains(t, out, "Strategy: explicit")
	assert.Contains(t, out, "✓ Requested")
	assert.Contains(t, out, "Priya Nair (Line Manager) [Completed] [Approved by: Priya Nair]")
	assert.Contains(t, out, "Tom Berg (Finance Manager) [Current Approver]")
	assert.Contains(t, out, `"Within travel policy."`)
	assert.NotContains(t, out, "\033[", "output to a buffer is never colored")
}

func TestSteps_ExpenseWithOverrides(t *testing.T) {
	out, err := run(t, "steps", "--expense", "EXP-2023-001", "--amount", "200", "--json")
	require.NoError(t, err)

	var steps []approval.Step
	require.NoError(t, json.Unmarshal([]byte(out), &steps))
	for _, s := range steps {
		assert.NotEqual(t, "Project Approval - Level 1", s.Title, "amount 200 drops the gated level")
	}

	out, err = run(t, "steps", "--expense", "EXP-2023-001", "--status", "cleared")
	require.NoError(t, err)
	assert.Contains(t, out, "Current status: Cleared")
	assert.Contains(t, out, "● Cleared")
}

func TestSteps_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
hierarchy:
  draft: []
  review:
    - {user_name: A, role: reviewer, level: 2}
    - {user_name: B, role: reviewer, level: 1}
  cleared: []
current_status: review
`), 0644))

	out, err := run(t, "steps", "--file", path, "--json")
	require.NoError(t, err)

	var steps []approval.Step
	require.NoError(t, json.Unmarshal([]byte(out), &steps))
	require.Len(t, steps, 4)
	assert.Equal(t, "Draft", steps[0].Title)
	assert.Equal(t, "Review - Level 2", steps[1].Title)
	assert.Equal(t, "Review - Level 1", steps[2].Title)
	assert.Equal(t, approval.StepCurrent, steps[1].Status)
	assert.Equal(t, approval.StepPending, steps[3].Status)
}

func TestSteps_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no source", []string{"steps"}, "exactly one of --expense or --file"},
		{"both sources", []string{"steps", "-e", "EXP-2023-001", "-f", "x.yaml"}, "exactly one of --expense or --file"},
		{"negative amount", []string{"steps", "-e", "EXP-2023-001", "--amount", "-5"}, "must not be negative"},
		{"unknown expense", []string{"steps", "-e", "EXP-404"}, "expense not found"},
		{"bad strategy", []string{"steps", "-e", "EXP-2023-001", "--strategy", "random"}, "unknown strategy"},
		{"missing file", []string{"steps", "-f", "/nonexistent/request.yaml"}, "failed to read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExport(t *testing.T) {
	output := filepath.Join(t.TempDir(), "path.xlsx")

	out, err := run(t, "export", "--expense", "EXP-2023-002", "--output", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+output)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Equal(t, "EXP-2023-002: Office Supplies", rows[0][0])
}

func TestExport_UnknownExpenseRemovesFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "missing.xlsx")

	_, err := run(t, "export", "--expense", "EXP-404", "--output", output)
	require.Error(t, err)
	assert.NoFileExists(t, output)
}

func TestApproverLine(t *testing.T) {
	assert.Equal(t, "rahul (Finance Manager)", approverLine(approval.ApproverView{Name: "rahul", Role: "finance_manager"}))
	assert.Equal(t, "x [Current Approver]", approverLine(approval.ApproverView{Name: "x", IsCurrentPointer: true}))
}
