package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/approval-path/configs"
	"github.com/garyjia/approval-path/internal/application/service"
	"github.com/garyjia/approval-path/internal/domain/approval"
	"github.com/garyjia/approval-path/internal/infrastructure/export"
	"github.com/garyjia/approval-path/internal/infrastructure/fixture"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	data, err := configs.LoadFixture(configs.DefaultFixture)
	require.NoError(t, err)
	provider, err := fixture.NewProvider(data, zap.NewNop())
	require.NoError(t, err)

	svc, err := service.NewWorkflowService(provider, service.WorkflowConfig{}, nopLogger{})
	require.NoError(t, err)

	server, err := NewServer(DefaultServerConfig(), svc, export.NewXLSXExporter(zap.NewNop()), nopLogger{})
	require.NoError(t, err)
	return server
}

func do(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeAPI(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeAPI(t, w)
	assert.True(t, resp.Success)
	assert.Contains(t, string(resp.Data), `"status":"healthy"`)
}

func TestExpenseList(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `href="/expenses/EXP-2023-001"`)
	assert.Contains(t, body, "Business Trip to New York")
	assert.Contains(t, body, "$1,500.00")
	assert.Contains(t, body, `badge-amber">Project Approval`)
	assert.Contains(t, body, `badge-green">Cleared`)
}

func TestExpenseDetail(t *testing.T) {
	s := newTestServer(t)

	t.Run("conditional workflow", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/expenses/EXP-2023-001", nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := w.Body.String()
		assert.Contains(t, body, "Project Approval - Level 1")
		assert.Contains(t, body, "ramesh")
		assert.Contains(t, body, "No approval needed at this stage")
		assert.Contains(t, body, "node-emerald")
		assert.Contains(t, body, "node-blue")
		assert.Contains(t, body, "Conference_Agenda.pdf")
		assert.Contains(t, body, "1.2 MB")
		assert.NotContains(t, body, "Current Approver")
	})

	t.Run("tracked workflow", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/expenses/EXP-2023-004", nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := w.Body.String()
		assert.Contains(t, body, "Current Approver")
		assert.Contains(t, body, "Approved by: Priya Nair")
		assert.Contains(t, body, "Within travel policy.")
		assert.Contains(t, body, "No comments yet")
	})

	t.Run("unknown expense", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/expenses/EXP-9999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "expense not found")
	})

	t.Run("invalid id", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/expenses/-bad", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetApprovalPath(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/api/expenses/EXP-2023-002/approval-path", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeAPI(t, w)
	require.True(t, resp.Success)

	var timeline struct {
		CurrentStatus string          `json:"current_status"`
		Strategy      string          `json:"strategy"`
		Steps         []approval.Step `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &timeline))

	assert.Equal(t, "finance_approval", timeline.CurrentStatus)
	assert.Equal(t, approval.StrategyConditional, timeline.Strategy)

	// amount 500 drops the conditioned level 1 project managers
	var titles []string
	var statuses []approval.StepStatus
	for _, step := range timeline.Steps {
		titles = append(titles, step.Title)
		statuses = append(statuses, step.Status)
	}
	assert.Equal(t, []string{
		"Draft",
		"Project Approval - Level 2",
		"Finance Approval - Level 1",
		"Finance Approval - Level 2",
		"Cleared",
	}, titles)
	assert.Equal(t, []approval.StepStatus{
		approval.StepApproved,
		approval.StepApproved,
		approval.StepCurrent,
		approval.StepCurrent,
		approval.StepPending,
	}, statuses)
}

func TestListAndGetExpense(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/expenses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeAPI(t, w).Data), "EXP-2023-004")

	w = do(t, s, http.MethodGet, "/api/expenses/EXP-2023-003", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeAPI(t, w).Data), `"title":"Team Lunch"`)

	w = do(t, s, http.MethodGet, "/api/expenses/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decodeAPI(t, w).Success)
}

func TestPreviewApprovalPath(t *testing.T) {
	s := newTestServer(t)

	t.Run("filters conditioned approvers", func(t *testing.T) {
		body := []byte(`{
  "hierarchy": {
    "stage": [
      {"user_name": "A", "role": "r", "condition": ["amount>1000"], "level": 1},
      {"user_name": "B", "role": "r", "level": 1}
    ]
  },
  "current_status": "stage",
  "amount": 500
}`)
		w := do(t, s, http.MethodPost, "/api/approval-path/preview", body)
		require.Equal(t, http.StatusOK, w.Code)

		var steps []approval.Step
		require.NoError(t, json.Unmarshal(decodeAPI(t, w).Data, &steps))
		require.Len(t, steps, 1)
		assert.Equal(t, "Stage - Level 1", steps[0].Title)
		require.Len(t, steps[0].Approvers, 1)
		assert.Equal(t, "B", steps[0].Approvers[0].Name)
	})

	t.Run("malformed shape", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/approval-path/preview", []byte(`{"hierarchy": {"draft": "x"}, "current_status": "draft"}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeAPI(t, w).Error, "draft")
	})

	t.Run("too large", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/approval-path/preview", []byte(strings.Repeat(" ", maxPreviewBody+1)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestExportApprovalPath(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/expenses/EXP-2023-001/export", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="EXP-2023-001-approval-path.xlsx"`)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Equal(t, "EXP-2023-001: Business Trip to New York", rows[0][0])
	assert.Equal(t, "Draft", rows[4][0])
	assert.Equal(t, "Project Approval - Level 1", rows[5][0])
	assert.Equal(t, "ramesh", rows[5][2])
}

func TestStepColors(t *testing.T) {
	tests := []struct {
		status    approval.StepStatus
		node      string
		connector string
	}{
		{approval.StepApproved, "emerald", "emerald"},
		{approval.StepCurrent, "blue", "slate"},
		{approval.StepPending, "slate", "slate"},
		{approval.StepSkipped, "slate", "slate"},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.node, stepColor(tt.status))
			assert.Equal(t, tt.connector, connectorColor(tt.status))
		})
	}
	assert.Equal(t, "$1,250.50", formatMoney(1250.5))
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/health", nil)
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "6f1c2a10-0001-4d2e-9a51-000000000001")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, "6f1c2a10-0001-4d2e-9a51-000000000001", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.NotEqual(t, "not a uuid", rec.Header().Get(RequestIDHeader))
}
