package models

import (
	"time"
)

// ContentType tags the kind of content submitted for evaluation.
type ContentType string

const (
	ContentTypePost    ContentType = "post"
	ContentTypeComment ContentType = "comment"
	ContentTypeLesson  ContentType = "lesson"
	ContentTypeMessage ContentType = "message"
	ContentTypeProfile ContentType = "profile"
)

// Author identifies who created a piece of content.
type Author struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// ContentMetadata carries request and attachment context alongside the text.
type ContentMetadata struct {
	IPAddress      string   `json:"ip_address,omitempty"`
	UserAgent      string   `json:"user_agent,omitempty"`
	Location       string   `json:"location,omitempty"`
	ImageURLs      []string `json:"image_urls,omitempty"`
	LinkURLs       []string `json:"link_urls,omitempty"`
	AttachmentURLs []string `json:"attachment_urls,omitempty"`
}

// ContentItem is one piece of content submitted to the moderation engine.
// Treated as immutable once submitted; the engine never writes to it.
type ContentItem struct {
	ID        string          `json:"id"`
	Type      ContentType     `json:"type"`
	Text      string          `json:"text"`
	Author    Author          `json:"author"`
	Metadata  ContentMetadata `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
}
