package master

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/nexboard/nexboard/dao/model"
)

// Types is the closed set of selectors accepted by ByType.
var Types = []string{"teams", "employees", "boards", "status", "priority", "category"}

var ErrUnknownType = fmt.Errorf("type must be one of: %s", strings.Join(Types, ", "))

// AllData holds every lookup table, keyed the way the API exposes them.
type AllData struct {
	Teams      []model.Team            `json:"teams"`
	Employees  []model.Employee        `json:"employees"`
	Boards     []model.Board           `json:"boards"`
	Statuses   []model.ProjectStatus   `json:"statuses"`
	Priorities []model.ProjectPriority `json:"priorities"`
	Categories []model.ProjectCategory `json:"categories"`
}

type DBService interface {
	All(ctx context.Context) (*AllData, error)
	ByType(ctx context.Context, typ string) (data any, count int, err error)
}

type service struct {
	db *gorm.DB
}

func NewDBService(db *gorm.DB) DBService {
	return &service{db: db}
}

// All fetches the six lookup tables concurrently. There is no error
// isolation: any single failure fails the whole call.
func (s *service) All(ctx context.Context) (*AllData, error) {
	var data AllData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.db.WithContext(gctx).Find(&data.Teams).Error })
	g.Go(func() error { return s.db.WithContext(gctx).Find(&data.Employees).Error })
	g.Go(func() error { return s.db.WithContext(gctx).Find(&data.Boards).Error })
	g.Go(func() error { return s.db.WithContext(gctx).Find(&data.Statuses).Error })
	g.Go(func() error { return s.db.WithContext(gctx).Find(&data.Priorities).Error })
	g.Go(func() error { return s.db.WithContext(gctx).Find(&data.Categories).Error })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// ByType fetches one lookup table by its case-insensitive selector. Unknown
// selectors fail before any store access.
func (s *service) ByType(ctx context.Context, typ string) (any, int, error) {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "teams":
		var rows []model.Team
		return fetch(ctx, s.db, &rows)
	case "employees":
		var rows []model.Employee
		return fetch(ctx, s.db, &rows)
	case "boards":
		var rows []model.Board
		return fetch(ctx, s.db, &rows)
	case "status":
		var rows []model.ProjectStatus
		return fetch(ctx, s.db, &rows)
	case "priority":
		var rows []model.ProjectPriority
		return fetch(ctx, s.db, &rows)
	case "category":
		var rows []model.ProjectCategory
		return fetch(ctx, s.db, &rows)
	default:
		return nil, 0, ErrUnknownType
	}
}

func fetch[T any](ctx context.Context, db *gorm.DB, rows *[]T) (any, int, error) {
	if err := db.WithContext(ctx).Find(rows).Error; err != nil {
		return nil, 0, err
	}
	return *rows, len(*rows), nil
}
