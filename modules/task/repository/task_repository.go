package repository

import (
	"context"
	"database/sql"
	"venue-crm/core/database"
	"venue-crm/core/logger"
	"venue-crm/core/params"
	"venue-crm/modules/task/dto"
	"venue-crm/modules/task/entity"

	"github.com/google/uuid"
)

type TaskRepositoryInterface interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)
	List(ctx context.Context, qp *params.QueryParams, filter *dto.TaskListFilter) ([]entity.Task, int, error)
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaskRepository struct {
	DB database.Database
}

func NewTaskRepository(db database.Database) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	query := `
		INSERT INTO tasks (user_id, assignee_id, title, description, priority, status, due_date, related_type, related_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		t.UserID, t.AssigneeID, t.Title, t.Description, t.Priority, t.Status, t.DueDate, t.RelatedType, t.RelatedID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		logger.Error("TaskRepository:Create:Error", "error", err)
	}
	return err
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	var t entity.Task
	if err := r.DB.GetContext(ctx, &t, `SELECT * FROM tasks WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("TaskRepository:GetByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) List(ctx context.Context, qp *params.QueryParams, filter *dto.TaskListFilter) ([]entity.Task, int, error) {
	var tasks []entity.Task
	query := `
		SELECT * FROM tasks
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR status = $2)
		  AND ($3::uuid IS NULL OR assignee_id = $3)
		  AND (NOT $4 OR (status = 'open' AND due_date IS NOT NULL AND due_date < NOW()))
		ORDER BY due_date ASC NULLS LAST, created_at DESC
		LIMIT $5 OFFSET $6
	`
	err := r.DB.SelectContext(ctx, &tasks, query,
		qp.Search, filter.Status, filter.AssigneeID, filter.OverdueOnly, qp.PageSize, qp.Offset())
	if err != nil {
		logger.Error("TaskRepository:List:Error", "error", err)
		return nil, 0, err
	}

	var total int
	countQuery := `
		SELECT COUNT(*) FROM tasks
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR status = $2)
		  AND ($3::uuid IS NULL OR assignee_id = $3)
		  AND (NOT $4 OR (status = 'open' AND due_date IS NOT NULL AND due_date < NOW()))
	`
	if err := r.DB.GetContext(ctx, &total, countQuery, qp.Search, filter.Status, filter.AssigneeID, filter.OverdueOnly); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	query := `
		UPDATE tasks
		SET assignee_id = :assignee_id, title = :title, description = :description, priority = :priority,
		    status = :status, due_date = :due_date, completed_at = :completed_at,
		    related_type = :related_type, related_id = :related_id, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.DB.NamedExecContext(ctx, query, t)
	if err != nil {
		logger.Error("TaskRepository:Update:Error", "error", err, "id", t.ID)
	}
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
}
