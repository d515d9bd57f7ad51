package dto

import (
	"time"

	"github.com/google/uuid"
)

type TaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
	RelatedType *string    `json:"related_type"`
	RelatedID   *uuid.UUID `json:"related_id"`
}

type TaskListFilter struct {
	Status      string
	AssigneeID  *uuid.UUID
	OverdueOnly bool
}
