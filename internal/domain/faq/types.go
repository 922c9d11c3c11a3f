package faq

import "time"

// FAQ is a single question/answer entry. Question and Answer hold sanitized HTML.
type FAQ struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest is the payload for creating one FAQ. A nil field was not submitted at all.
type CreateRequest struct {
	Question *string `json:"question" form:"question"`
	Answer   *string `json:"answer" form:"answer"`
}

// UpdateRequest is a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Question *string `json:"question" form:"question"`
	Answer   *string `json:"answer" form:"answer"`
}

// Draft is a validated FAQ ready to be inserted.
type Draft struct {
	Question  string
	Answer    string
	CreatedAt time.Time
}

// Patch is a validated partial update ready to be applied.
type Patch struct {
	Question  *string
	Answer    *string
	UpdatedAt time.Time
}

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

// ItemErrors reports the validation failures of one bulk-create entry.
type ItemErrors struct {
	Index  int         `json:"index"`
	Fields FieldErrors `json:"fields"`
}
