package port

import "errors"

var (
	// ErrExpenseNotFound is returned when no expense has the requested ID
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrWorkflowNotFound is returned when an expense names an unknown workflow
	ErrWorkflowNotFound = errors.New("workflow not found")
)
