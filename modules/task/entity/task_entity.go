package entity

import (
	"time"

	"venue-crm/core/entity"

	"github.com/google/uuid"
)

const (
	TaskStatusOpen      = "open"
	TaskStatusCompleted = "completed"

	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task is a follow-up item, optionally tied to a contact, deal or directory
// record via the polymorphic RelatedType/RelatedID pair.
type Task struct {
	entity.BaseEntity
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	AssigneeID  uuid.UUID  `json:"assignee_id" db:"assignee_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Priority    string     `json:"priority" db:"priority"`
	Status      string     `json:"status" db:"status"`
	DueDate     *time.Time `json:"due_date" db:"due_date"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	RelatedType *string    `json:"related_type" db:"related_type"`
	RelatedID   *uuid.UUID `json:"related_id" db:"related_id"`
}
