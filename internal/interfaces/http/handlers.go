package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/approval-path/internal/application/port"
	"github.com/garyjia/approval-path/internal/application/service"
	"github.com/garyjia/approval-path/internal/domain/approval"
	"github.com/garyjia/approval-path/internal/domain/entity"
	"github.com/garyjia/approval-path/pkg/utils"
)

// maxPreviewBody caps the size of a preview request
const maxPreviewBody = 1 << 20

// Handlers contains all HTTP request handlers
type Handlers struct {
	workflowService service.WorkflowService
	exporter        port.TimelineExporter
	logger          Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(workflowService service.WorkflowService, exporter port.TimelineExporter, logger Logger) *Handlers {
	return &Handlers{
		workflowService: workflowService,
		exporter:        exporter,
		logger:          logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// TimelineResponse is the approval path of one expense in API responses
type TimelineResponse struct {
	Expense       *entity.Expense  `json:"expense"`
	CurrentStatus string           `json:"current_status"`
	Strategy      string           `json:"strategy"`
	Steps         []approval.Step  `json:"steps"`
	Comments      []entity.Comment `json:"comments"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// ExpenseList handles GET /
func (h *Handlers) ExpenseList(c *gin.Context) {
	expenses, err := h.workflowService.ListExpenses(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"PageTitle": "Expenses",
		"Expenses":  expenses,
	})
}

// ExpenseDetail handles GET /expenses/:id
func (h *Handlers) ExpenseDetail(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateExpenseID(id); err != nil {
		h.renderError(c, err)
		return
	}

	timeline, err := h.workflowService.ApprovalPath(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "expense.tmpl", gin.H{
		"PageTitle": fmt.Sprintf("%s: %s", timeline.Expense.ID, timeline.Expense.Title),
		"Timeline":  timeline,
	})
}

// ExportApprovalPath handles GET /expenses/:id/export
func (h *Handlers) ExportApprovalPath(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateExpenseID(id); err != nil {
		h.renderError(c, err)
		return
	}

	// Buffer the file so a failed export still gets an error status
	var buf bytes.Buffer
	if err := h.workflowService.Export(c.Request.Context(), id, h.exporter, &buf); err != nil {
		h.renderError(c, err)
		return
	}

	filename := fmt.Sprintf("%s-approval-path.%s", utils.SafeFileName(id), h.exporter.Extension())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, h.exporter.ContentType(), buf.Bytes())
}

// ListExpenses handles GET /api/expenses
func (h *Handlers) ListExpenses(c *gin.Context) {
	expenses, err := h.workflowService.ListExpenses(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: expenses})
}

// GetExpense handles GET /api/expenses/:id
func (h *Handlers) GetExpense(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateExpenseID(id); err != nil {
		h.respondError(c, err)
		return
	}

	expense, err := h.workflowService.GetExpense(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: expense})
}

// GetApprovalPath handles GET /api/expenses/:id/approval-path
func (h *Handlers) GetApprovalPath(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateExpenseID(id); err != nil {
		h.respondError(c, err)
		return
	}

	timeline, err := h.workflowService.ApprovalPath(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: TimelineResponse{
			Expense:       timeline.Expense,
			CurrentStatus: timeline.CurrentStatus,
			Strategy:      timeline.Strategy,
			Steps:         timeline.Steps,
			Comments:      timeline.Comments,
		},
	})
}

// PreviewApprovalPath handles POST /api/approval-path/preview.
// The body holds a hierarchy, a current status and an optional amount.
func (h *Handlers) PreviewApprovalPath(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPreviewBody)
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, Response{Success: false, Error: "request body too large"})
		return
	}

	req, err := approval.DecodeRequest(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	steps, err := h.workflowService.Preview(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: steps})
}

// statusCode maps a service error to an HTTP status
func statusCode(err error) int {
	switch {
	case errors.Is(err, port.ErrExpenseNotFound):
		return http.StatusNotFound
	case errors.Is(err, approval.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, utils.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage hides internal errors from clients
func errorMessage(err error, code int) string {
	if code == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

func (h *Handlers) respondError(c *gin.Context, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err, "path", c.Request.URL.Path)
	}
	c.JSON(code, Response{Success: false, Error: errorMessage(err, code)})
}

func (h *Handlers) renderError(c *gin.Context, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("Page failed", "error", err, "path", c.Request.URL.Path)
	}
	c.HTML(code, "error.tmpl", gin.H{
		"PageTitle": http.StatusText(code),
		"Status":    http.StatusText(code),
		"Message":   errorMessage(err, code),
	})
}
