package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/nexboard/nexboard/dao/model"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmptyContent    = errors.New("comment content is required")
)

// DefaultUserName is the attribution used when a project comment arrives
// without one.
const DefaultUserName = "You"

// UserRef is the resolved author of a task comment.
type UserRef struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

// TaskCommentView is a task comment with its author resolved. User is null
// when the employee was removed after commenting.
type TaskCommentView struct {
	ID        uint     `json:"id"`
	TaskID    uint     `json:"taskId"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"createdAt"`
	User      *UserRef `json:"user"`
}

type DBService interface {
	AddTaskComment(ctx context.Context, taskID, userID uint, content string) (*model.Comment, error)
	AddProjectComment(ctx context.Context, projectID uint, content string, userName *string) (*model.Comment, error)
	ListByTask(ctx context.Context, taskID uint) ([]TaskCommentView, error)
	ListByProject(ctx context.Context, projectID uint) ([]model.Comment, error)
}

type service struct {
	db *gorm.DB
}

func NewDBService(db *gorm.DB) DBService {
	return &service{db: db}
}

// AddTaskComment stores a comment attributed to an employee. Both the task
// (non-deleted) and the employee must exist; nothing is inserted otherwise.
func (s *service) AddTaskComment(ctx context.Context, taskID, userID uint, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	var row *model.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Task{}).
			Where("id = ? AND is_deleted = ?", taskID, false).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrTaskNotFound
		}
		if err := tx.Model(&model.Employee{}).Where("id = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrUserNotFound
		}
		row = &model.Comment{
			EntityType: model.CommentEntityTask,
			EntityID:   taskID,
			Content:    content,
			UserID:     &userID,
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// AddProjectComment stores a comment with free-text attribution, defaulting
// the author name when none is supplied.
func (s *service) AddProjectComment(ctx context.Context, projectID uint, content string, userName *string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	name := DefaultUserName
	if userName != nil && *userName != "" {
		name = *userName
	}

	var row *model.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Project{}).
			Where("id = ? AND is_deleted = ?", projectID, false).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrProjectNotFound
		}
		row = &model.Comment{
			EntityType: model.CommentEntityProject,
			EntityID:   projectID,
			Content:    content,
			UserName:   &name,
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// ListByTask returns the task's comments with authors resolved through one
// batched employee lookup over the distinct user ids present.
func (s *service) ListByTask(ctx context.Context, taskID uint) ([]TaskCommentView, error) {
	var rows []model.Comment
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", model.CommentEntityTask, taskID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	userIDs := lo.Uniq(lo.FilterMap(rows, func(c model.Comment, _ int) (uint, bool) {
		if c.UserID == nil {
			return 0, false
		}
		return *c.UserID, true
	}))

	users := map[uint]model.Employee{}
	if len(userIDs) > 0 {
		var employees []model.Employee
		if err := s.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&employees).Error; err != nil {
			return nil, err
		}
		users = lo.KeyBy(employees, func(e model.Employee) uint { return e.ID })
	}

	views := make([]TaskCommentView, 0, len(rows))
	for i := range rows {
		c := &rows[i]
		view := TaskCommentView{
			ID:        c.ID,
			TaskID:    c.EntityID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if c.UserID != nil {
			if emp, ok := users[*c.UserID]; ok {
				view.User = &UserRef{ID: emp.ID, Name: emp.Name, Email: emp.Email}
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// ListByProject returns the project's comments as stored.
func (s *service) ListByProject(ctx context.Context, projectID uint) ([]model.Comment, error) {
	var rows []model.Comment
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", model.CommentEntityProject, projectID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list project comments: %w", err)
	}
	return rows, nil
}
