package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexboard/nexboard/dao/model"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidInput    = errors.New("invalid input")
)

type TaskInput struct {
	Title      string
	DueDate    *string
	AssignedTo *uint
	Completed  bool
}

type CreateInput struct {
	Title       string
	Description *string
	CategoryID  *uint
	TeamID      *uint
	StatusID    *uint
	PriorityID  *uint
	DueDate     *string
	Owners      []uint
	Boards      []uint
	Tasks       []TaskInput
}

// UpdateInput is a full-field SET for the scalar columns: absent optional
// fields overwrite with NULL, so callers supply the complete desired state.
// The slice pointers distinguish "leave links/tasks alone" (nil) from
// "replace with this set" (non-nil, possibly empty).
type UpdateInput struct {
	Title       string
	Description *string
	CategoryID  *uint
	TeamID      *uint
	StatusID    *uint
	PriorityID  *uint
	DueDate     *string
	Owners      *[]uint
	Boards      *[]uint
	Tasks       *[]TaskInput
}

type DBService interface {
	Create(ctx context.Context, in *CreateInput) (*model.Project, error)
	Update(ctx context.Context, id uint, in *UpdateInput) error
	SoftDelete(ctx context.Context, id uint) error
	SoftDeleteTask(ctx context.Context, id uint) error
}

type service struct {
	db *gorm.DB
}

func NewDBService(db *gorm.DB) DBService {
	return &service{db: db}
}

func parseDueDate(s *string) (*datatypes.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, fmt.Errorf("%w: dueDate %q is not a YYYY-MM-DD date", ErrInvalidInput, *s)
	}
	d := datatypes.Date(t)
	return &d, nil
}

func buildTasks(projectID uint, inputs []TaskInput) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(inputs))
	for i := range inputs {
		in := &inputs[i]
		if in.Title == "" {
			return nil, fmt.Errorf("%w: task title is required", ErrInvalidInput)
		}
		due, err := parseDueDate(in.DueDate)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, model.Task{
			Title:      in.Title,
			DueDate:    due,
			AssignedTo: in.AssignedTo,
			ProjectID:  projectID,
			Completed:  in.Completed,
		})
	}
	return tasks, nil
}

func ownerLinks(projectID uint, owners []uint) []model.ProjectOwner {
	return lo.Map(owners, func(id uint, _ int) model.ProjectOwner {
		return model.ProjectOwner{ProjectID: projectID, OwnerID: id}
	})
}

func boardLinks(projectID uint, boards []uint) []model.ProjectBoard {
	return lo.Map(boards, func(id uint, _ int) model.ProjectBoard {
		return model.ProjectBoard{ProjectID: projectID, BoardID: id}
	})
}

// Create inserts the project row plus its owner links, board links and nested
// tasks in one transaction: a failure in any child insert rolls everything
// back rather than leaving an orphan project.
func (s *service) Create(ctx context.Context, in *CreateInput) (*model.Project, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	proj := &model.Project{
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		TeamID:      in.TeamID,
		StatusID:    in.StatusID,
		PriorityID:  in.PriorityID,
		DueDate:     due,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(proj).Error; err != nil {
			return err
		}
		if len(in.Owners) > 0 {
			if err := tx.Create(ownerLinks(proj.ID, in.Owners)).Error; err != nil {
				return err
			}
		}
		if len(in.Boards) > 0 {
			if err := tx.Create(boardLinks(proj.ID, in.Boards)).Error; err != nil {
				return err
			}
		}
		if len(in.Tasks) > 0 {
			tasks, err := buildTasks(proj.ID, in.Tasks)
			if err != nil {
				return err
			}
			if err := tx.Create(&tasks).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return proj, nil
}

// lockProject loads the project row for update. Concurrent updates against
// the same project serialize on the row lock, so link replacement cannot
// interleave with another writer's delete-then-insert.
func (s *service) lockProject(tx *gorm.DB, id uint) (*model.Project, error) {
	q := tx.Where("id = ? AND is_deleted = ?", id, false)
	// sqlite (used by tests) has no FOR UPDATE; its writes serialize anyway.
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var proj model.Project
	if err := q.First(&proj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &proj, nil
}

// Update overwrites the scalar columns with the supplied state and, when the
// corresponding sets are present, replaces owner links, board links and tasks
// wholesale. Replacement runs inside the same transaction as the scalar
// update; previous tasks are soft-deleted, matching the delete endpoint's
// lifecycle policy.
func (s *service) Update(ctx context.Context, id uint, in *UpdateInput) error {
	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockProject(tx, id); err != nil {
			return err
		}

		updates := map[string]any{
			"title":       in.Title,
			"description": in.Description,
			"category_id": in.CategoryID,
			"team_id":     in.TeamID,
			"status_id":   in.StatusID,
			"priority_id": in.PriorityID,
			"due_date":    due,
		}
		if err := tx.Model(&model.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if in.Owners != nil {
			if err := tx.Where("project_id = ?", id).Delete(&model.ProjectOwner{}).Error; err != nil {
				return err
			}
			if len(*in.Owners) > 0 {
				if err := tx.Create(ownerLinks(id, *in.Owners)).Error; err != nil {
					return err
				}
			}
		}
		if in.Boards != nil {
			if err := tx.Where("project_id = ?", id).Delete(&model.ProjectBoard{}).Error; err != nil {
				return err
			}
			if len(*in.Boards) > 0 {
				if err := tx.Create(boardLinks(id, *in.Boards)).Error; err != nil {
					return err
				}
			}
		}
		if in.Tasks != nil {
			now := time.Now()
			err := tx.Model(&model.Task{}).
				Where("project_id = ? AND is_deleted = ?", id, false).
				Updates(map[string]any{"is_deleted": true, "deleted_at": now}).Error
			if err != nil {
				return err
			}
			if len(*in.Tasks) > 0 {
				tasks, err := buildTasks(id, *in.Tasks)
				if err != nil {
					return err
				}
				if err := tx.Create(&tasks).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// SoftDelete flags the project and cascades the flag to all its tasks.
func (s *service) SoftDelete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockProject(tx, id); err != nil {
			return err
		}
		now := time.Now()
		err := tx.Model(&model.Project{}).Where("id = ?", id).
			Updates(map[string]any{"is_deleted": true, "deleted_at": now}).Error
		if err != nil {
			return err
		}
		return tx.Model(&model.Task{}).
			Where("project_id = ? AND is_deleted = ?", id, false).
			Updates(map[string]any{"is_deleted": true, "deleted_at": now}).Error
	})
}

// SoftDeleteTask flags a single task.
func (s *service) SoftDeleteTask(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "deleted_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
