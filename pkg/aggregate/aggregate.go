// Package aggregate resolves a project's foreign keys to display names,
// its owner/board links to full records and its tasks to subtask views, and
// merges everything into one response shape.
//
// Two strategies produce the same views: GetByID resolves relations with
// per-project queries, ListPage batches every related table once per request
// and zips the grouped rows back onto each project. Both feed the same view
// assembly, so their output is identical by construction.
package aggregate

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nexboard/nexboard/dao/model"
	"github.com/nexboard/nexboard/pkg/db/project"
)

type Decorator struct {
	db *gorm.DB
}

func NewDecorator(db *gorm.DB) *Decorator {
	return &Decorator{db: db}
}

// projectRow is a project with its 1:1 lookup names already resolved.
type projectRow struct {
	model.Project
	CategoryName *string
	TeamName     *string
	StatusName   *string
	PriorityName *string
}

// related holds everything decorate needs beyond the project row itself.
type related struct {
	owners    []model.ProjectOwner
	boards    []model.ProjectBoard
	tasks     []model.Task
	employees map[uint]model.Employee
	boardRecs map[uint]model.Board
}

func dateString(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := time.Time(*d).Format("2006-01-02")
	return &s
}

// buildView assembles the final shape. Shared by both strategies.
func buildView(row *projectRow, rel *related) ProjectView {
	view := ProjectView{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		CategoryID:  row.CategoryID,
		TeamID:      row.TeamID,
		StatusID:    row.StatusID,
		PriorityID:  row.PriorityID,
		DueDate:     dateString(row.DueDate),
		IsDeleted:   row.IsDeleted,
		CreatedAt:   row.CreatedAt,
		Category:    row.CategoryName,
		Team:        row.TeamName,
		Status:      row.StatusName,
		Priority:    row.PriorityName,
		Owners:      make([]OwnerView, 0, len(rel.owners)),
		Boards:      make([]BoardView, 0, len(rel.boards)),
		Subtasks:    make([]SubtaskView, 0, len(rel.tasks)),
	}

	for _, link := range rel.owners {
		if emp, ok := rel.employees[link.OwnerID]; ok {
			view.Owners = append(view.Owners, OwnerView{ID: emp.ID, Name: emp.Name, Email: emp.Email})
		}
	}
	for _, link := range rel.boards {
		if b, ok := rel.boardRecs[link.BoardID]; ok {
			view.Boards = append(view.Boards, BoardView{ID: b.ID, Name: b.Name})
		}
	}
	for i := range rel.tasks {
		t := &rel.tasks[i]
		assignee := UnassignedLabel
		if t.AssignedTo != nil {
			if emp, ok := rel.employees[*t.AssignedTo]; ok {
				assignee = emp.Name
			}
		}
		view.Subtasks = append(view.Subtasks, SubtaskView{
			ID:         t.ID,
			Title:      t.Title,
			DueDate:    dateString(t.DueDate),
			AssignedTo: t.AssignedTo,
			Assignee:   assignee,
			Completed:  t.Completed,
		})
	}
	return view
}

func (d *Decorator) fetchEmployees(ctx context.Context, ids []uint) (map[uint]model.Employee, error) {
	if len(ids) == 0 {
		return map[uint]model.Employee{}, nil
	}
	var rows []model.Employee
	if err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return lo.KeyBy(rows, func(e model.Employee) uint { return e.ID }), nil
}

func (d *Decorator) fetchBoards(ctx context.Context, ids []uint) (map[uint]model.Board, error) {
	if len(ids) == 0 {
		return map[uint]model.Board{}, nil
	}
	var rows []model.Board
	if err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return lo.KeyBy(rows, func(b model.Board) uint { return b.ID }), nil
}

func personIDs(owners []model.ProjectOwner, tasks []model.Task) []uint {
	ids := lo.Map(owners, func(l model.ProjectOwner, _ int) uint { return l.OwnerID })
	for i := range tasks {
		if tasks[i].AssignedTo != nil {
			ids = append(ids, *tasks[i].AssignedTo)
		}
	}
	return lo.Uniq(ids)
}

// ListPage returns one page of decorated non-deleted projects plus the total
// count. Lookup names resolve via left joins in the page query; links, tasks,
// employees and boards are each fetched once for the whole page.
func (d *Decorator) ListPage(ctx context.Context, page, limit int) ([]ProjectView, int64, error) {
	var total int64
	err := d.db.WithContext(ctx).Model(&model.Project{}).
		Where("is_deleted = ?", false).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var rows []projectRow
	err = d.db.WithContext(ctx).Table("projects AS p").
		Select("p.*, c.name AS category_name, t.name AS team_name, s.name AS status_name, pr.name AS priority_name").
		Joins("LEFT JOIN project_categories c ON c.id = p.category_id").
		Joins("LEFT JOIN teams t ON t.id = p.team_id").
		Joins("LEFT JOIN project_statuses s ON s.id = p.status_id").
		Joins("LEFT JOIN project_priorities pr ON pr.id = p.priority_id").
		Where("p.is_deleted = ?", false).
		Order("p.id").
		Offset((page - 1) * limit).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return []ProjectView{}, total, nil
	}

	ids := lo.Map(rows, func(r projectRow, _ int) uint { return r.ID })

	var owners []model.ProjectOwner
	var boardLinks []model.ProjectBoard
	var tasks []model.Task
	if err := d.db.WithContext(ctx).Where("project_id IN ?", ids).
		Order("project_id, owner_id").Find(&owners).Error; err != nil {
		return nil, 0, err
	}
	if err := d.db.WithContext(ctx).Where("project_id IN ?", ids).
		Order("project_id, board_id").Find(&boardLinks).Error; err != nil {
		return nil, 0, err
	}
	if err := d.db.WithContext(ctx).
		Where("project_id IN ? AND is_deleted = ?", ids, false).
		Order("id").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	boardIDs := lo.Uniq(lo.Map(boardLinks, func(l model.ProjectBoard, _ int) uint { return l.BoardID }))

	var employees map[uint]model.Employee
	var boardRecs map[uint]model.Board
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = d.fetchEmployees(gctx, personIDs(owners, tasks))
		return err
	})
	g.Go(func() error {
		var err error
		boardRecs, err = d.fetchBoards(gctx, boardIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	ownersByProject := lo.GroupBy(owners, func(l model.ProjectOwner) uint { return l.ProjectID })
	boardsByProject := lo.GroupBy(boardLinks, func(l model.ProjectBoard) uint { return l.ProjectID })
	tasksByProject := lo.GroupBy(tasks, func(t model.Task) uint { return t.ProjectID })

	views := make([]ProjectView, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		views = append(views, buildView(row, &related{
			owners:    ownersByProject[row.ID],
			boards:    boardsByProject[row.ID],
			tasks:     tasksByProject[row.ID],
			employees: employees,
			boardRecs: boardRecs,
		}))
	}
	return views, total, nil
}

func lookupName[T any](ctx context.Context, db *gorm.DB, id *uint, name func(*T) string) (*string, error) {
	if id == nil {
		return nil, nil
	}
	var row T
	err := db.WithContext(ctx).Where("id = ?", *id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	n := name(&row)
	return &n, nil
}

// GetByID decorates a single non-deleted project with per-project queries,
// resolving lookups in the order category, team, status, priority, then
// owners, boards and subtasks.
func (d *Decorator) GetByID(ctx context.Context, id uint) (*ProjectView, error) {
	var proj model.Project
	err := d.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&proj).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, project.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	row := projectRow{Project: proj}
	if row.CategoryName, err = lookupName(ctx, d.db, proj.CategoryID,
		func(c *model.ProjectCategory) string { return c.Name }); err != nil {
		return nil, err
	}
	if row.TeamName, err = lookupName(ctx, d.db, proj.TeamID,
		func(t *model.Team) string { return t.Name }); err != nil {
		return nil, err
	}
	if row.StatusName, err = lookupName(ctx, d.db, proj.StatusID,
		func(s *model.ProjectStatus) string { return s.Name }); err != nil {
		return nil, err
	}
	if row.PriorityName, err = lookupName(ctx, d.db, proj.PriorityID,
		func(p *model.ProjectPriority) string { return p.Name }); err != nil {
		return nil, err
	}

	rel := related{}
	if err := d.db.WithContext(ctx).Where("project_id = ?", id).
		Order("project_id, owner_id").Find(&rel.owners).Error; err != nil {
		return nil, err
	}
	if err := d.db.WithContext(ctx).Where("project_id = ?", id).
		Order("project_id, board_id").Find(&rel.boards).Error; err != nil {
		return nil, err
	}
	if err := d.db.WithContext(ctx).
		Where("project_id = ? AND is_deleted = ?", id, false).
		Order("id").Find(&rel.tasks).Error; err != nil {
		return nil, err
	}

	boardIDs := lo.Uniq(lo.Map(rel.boards, func(l model.ProjectBoard, _ int) uint { return l.BoardID }))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rel.employees, err = d.fetchEmployees(gctx, personIDs(rel.owners, rel.tasks))
		return err
	})
	g.Go(func() error {
		var err error
		rel.boardRecs, err = d.fetchBoards(gctx, boardIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := buildView(&row, &rel)
	return &view, nil
}
