// Package resumes stores saved resume snapshots.
package resumes

import (
	"time"

	"resume-builder/resume/model"
)

// Record is one saved snapshot of a resume aggregate. Data is stored as-is; nothing reads
// individual fields back except the owner.
type Record struct {
	ID           string           `json:"id"`
	UserID       string           `json:"userId"`
	TemplateID   model.TemplateID `json:"templateId"`
	Data         model.ResumeData `json:"data"`
	ExportFormat string           `json:"exportFormat,omitempty"`
	StorageKey   string           `json:"storageKey,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// Filter narrows Query results. Empty fields match everything.
type Filter struct {
	UserID     string
	TemplateID model.TemplateID
}

// OrderField is a sortable column.
type OrderField string

const (
	OrderCreatedAt  OrderField = "created_at"
	OrderTemplateID OrderField = "template_id"
)

// Order sorts Query results. The zero value is created_at ascending.
type Order struct {
	Field OrderField
	Desc  bool
}

func (o Order) column() OrderField {
	switch o.Field {
	case OrderTemplateID:
		return OrderTemplateID
	default:
		return OrderCreatedAt
	}
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
