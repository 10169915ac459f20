package entity

import "fmt"

// Comment is one message in an expense discussion thread
type Comment struct {
	ID          string       `json:"id" yaml:"id"`
	Text        string       `json:"text" yaml:"text"`
	Author      string       `json:"author" yaml:"author"`
	AuthorRole  string       `json:"author_role" yaml:"author_role"`
	Timestamp   string       `json:"timestamp" yaml:"timestamp"`
	Attachments []Attachment `json:"attachments" yaml:"attachments"`
	Replies     []Comment    `json:"replies,omitempty" yaml:"replies"`
}

// Attachment is a file attached to a comment
type Attachment struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
	Type string `json:"type" yaml:"type"`
	Size int64  `json:"size" yaml:"size"`
}

// HumanSize returns the attachment size for display
func (a Attachment) HumanSize() string {
	return FormatFileSize(a.Size)
}

// FormatFileSize renders a byte count as B, KB or MB with one decimal
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
