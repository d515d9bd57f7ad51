package service

import (
	"context"
	"strings"
	"time"

	"venue-crm/core/errors"
	"venue-crm/core/params"
	"venue-crm/modules/task/dto"
	"venue-crm/modules/task/entity"
	"venue-crm/modules/task/repository"

	"github.com/google/uuid"
)

type TaskService struct {
	repo repository.TaskRepositoryInterface
}

func NewTaskService(repo repository.TaskRepositoryInterface) *TaskService {
	return &TaskService{repo: repo}
}

// Create makes the caller the creator; the assignee defaults to the caller
// when not set.
func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, req *dto.TaskRequest) (*entity.Task, *errors.AppError) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "title is required"}
	}

	priority := req.Priority
	switch priority {
	case "":
		priority = entity.TaskPriorityMedium
	case entity.TaskPriorityLow, entity.TaskPriorityMedium, entity.TaskPriorityHigh:
	default:
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "priority must be one of low, medium, high"}
	}

	assignee := userID
	if req.AssigneeID != nil {
		assignee = *req.AssigneeID
	}

	t := &entity.Task{
		UserID:      userID,
		AssigneeID:  assignee,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    priority,
		Status:      entity.TaskStatusOpen,
		DueDate:     req.DueDate,
		RelatedType: req.RelatedType,
		RelatedID:   req.RelatedID,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to create task", Err: err}
	}
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*entity.Task, *errors.AppError) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load task", Err: err}
	}
	if t == nil {
		return nil, &errors.AppError{Code: errors.ErrNotFound, Message: "Task not found"}
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context, qp *params.QueryParams, filter *dto.TaskListFilter) ([]entity.Task, int, *errors.AppError) {
	tasks, total, err := s.repo.List(ctx, qp, filter)
	if err != nil {
		return nil, 0, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to list tasks", Err: err}
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	return tasks, total, nil
}

func (s *TaskService) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, req *dto.TaskRequest) (*entity.Task, *errors.AppError) {
	t, appErr := s.Get(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if t.UserID != userID && t.AssigneeID != userID {
		return nil, &errors.AppError{Code: errors.ErrForbidden, Message: "You cannot modify this task"}
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		t.Title = title
	}
	if req.Priority != "" {
		switch req.Priority {
		case entity.TaskPriorityLow, entity.TaskPriorityMedium, entity.TaskPriorityHigh:
			t.Priority = req.Priority
		default:
			return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "priority must be one of low, medium, high"}
		}
	}
	if req.AssigneeID != nil {
		t.AssigneeID = *req.AssigneeID
	}
	t.Description = req.Description
	t.DueDate = req.DueDate
	t.RelatedType = req.RelatedType
	t.RelatedID = req.RelatedID

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to update task", Err: err}
	}
	return t, nil
}

// Complete is idempotent: completing a completed task keeps the original
// completion time.
func (s *TaskService) Complete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.Task, *errors.AppError) {
	t, appErr := s.Get(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if t.UserID != userID && t.AssigneeID != userID {
		return nil, &errors.AppError{Code: errors.ErrForbidden, Message: "You cannot modify this task"}
	}
	if t.Status == entity.TaskStatusCompleted {
		return t, nil
	}

	now := time.Now()
	t.Status = entity.TaskStatusCompleted
	t.CompletedAt = &now
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to complete task", Err: err}
	}
	return t, nil
}

func (s *TaskService) Reopen(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.Task, *errors.AppError) {
	t, appErr := s.Get(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if t.UserID != userID && t.AssigneeID != userID {
		return nil, &errors.AppError{Code: errors.ErrForbidden, Message: "You cannot modify this task"}
	}

	t.Status = entity.TaskStatusOpen
	t.CompletedAt = nil
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to reopen task", Err: err}
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) *errors.AppError {
	t, appErr := s.Get(ctx, id)
	if appErr != nil {
		return appErr
	}
	if t.UserID != userID {
		return &errors.AppError{Code: errors.ErrForbidden, Message: "Only the creator can delete a task"}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to delete task", Err: err}
	}
	return nil
}
