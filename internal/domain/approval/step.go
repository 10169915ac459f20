package approval

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Step is one node of the rendered approval path
type Step struct {
	Title     string         `json:"title"`
	Status    StepStatus     `json:"status"`
	Approvers []ApproverView `json:"approvers"`

	// Stage and Level locate the step in the hierarchy. Level is zero for marker steps.
	Stage  string `json:"stage"`
	Level  int    `json:"level"`
	Marker bool   `json:"marker"`
}

// ApproverView is the display projection of a Record
type ApproverView struct {
	Name             string `json:"name"`
	Role             string `json:"role"`
	Approved         bool   `json:"approved"`
	IsCurrentPointer bool   `json:"isCurrentPointer"`
	ApprovedBy       string `json:"approvedBy"`
	IsCompleted      bool   `json:"isCompleted"`
	Remark           string `json:"remark"`
}

// Humanize turns a status key into a title: "project_approval" becomes "Project Approval"
func Humanize(status string) string {
	words := strings.Fields(strings.ReplaceAll(status, "_", " "))
	return cases.Title(language.English).String(strings.Join(words, " "))
}
