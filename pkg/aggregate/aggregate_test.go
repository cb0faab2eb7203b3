package aggregate

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nexboard/nexboard/dao/model"
	"github.com/nexboard/nexboard/pkg/db/orm"
	"github.com/nexboard/nexboard/pkg/db/project"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, orm.SyncSchema(db))
	return db
}

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }

// seedFixture loads master data plus three projects: one fully linked, one
// bare, one soft-deleted, and one whose lookup ids dangle.
func seedFixture(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&model.Team{ID: 1, Name: "Platform"}).Error)
	require.NoError(t, db.Create(&model.ProjectStatus{ID: 1, Name: "on-track"}).Error)
	require.NoError(t, db.Create(&model.ProjectPriority{ID: 1, Name: "high"}).Error)
	require.NoError(t, db.Create(&model.ProjectCategory{ID: 1, Name: "internal"}).Error)
	require.NoError(t, db.Create(&[]model.Employee{
		{ID: 1, Name: "Alice", Email: strPtr("alice@company.com")},
		{ID: 2, Name: "Bob"},
	}).Error)
	require.NoError(t, db.Create(&[]model.Board{
		{ID: 1, Name: "Roadmap"},
		{ID: 2, Name: "Sprint"},
	}).Error)

	require.NoError(t, db.Create(&model.Project{
		ID: 1, Title: "Launch", Description: strPtr("Q4 launch"),
		CategoryID: uintPtr(1), TeamID: uintPtr(1), StatusID: uintPtr(1), PriorityID: uintPtr(1),
	}).Error)
	require.NoError(t, db.Create(&[]model.ProjectOwner{
		{ProjectID: 1, OwnerID: 1},
		{ProjectID: 1, OwnerID: 2},
	}).Error)
	require.NoError(t, db.Create(&[]model.ProjectBoard{
		{ProjectID: 1, BoardID: 1},
		{ProjectID: 1, BoardID: 2},
	}).Error)
	require.NoError(t, db.Create(&[]model.Task{
		{ID: 1, Title: "Design", ProjectID: 1, AssignedTo: uintPtr(1)},
		{ID: 2, Title: "Spec", ProjectID: 1},
		{ID: 3, Title: "Orphaned", ProjectID: 1, AssignedTo: uintPtr(99)},
		{ID: 4, Title: "Gone", ProjectID: 1, IsDeleted: true},
	}).Error)

	require.NoError(t, db.Create(&model.Project{ID: 2, Title: "Bare"}).Error)
	require.NoError(t, db.Create(&model.Project{ID: 3, Title: "Deleted", IsDeleted: true}).Error)
	require.NoError(t, db.Create(&model.Project{
		ID: 4, Title: "Dangling", CategoryID: uintPtr(77), TeamID: uintPtr(88),
	}).Error)
}

func TestListPageExcludesDeleted(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)
	d := NewDecorator(db)

	views, total, err := d.ListPage(context.Background(), 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, views, 3)
	for _, v := range views {
		require.NotEqual(t, "Deleted", v.Title)
	}
}

func TestListPagePagination(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)
	d := NewDecorator(db)

	first, total, err := d.ListPage(context.Background(), 1, 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, first, 2)

	second, _, err := d.ListPage(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.NotEqual(t, first[0].ID, second[0].ID)
	require.NotEqual(t, first[1].ID, second[0].ID)
}

// The batched page strategy and the per-project strategy must produce
// identical view models for the same store state.
func TestBatchedMatchesNaive(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)
	d := NewDecorator(db)

	views, _, err := d.ListPage(context.Background(), 1, 10)
	require.NoError(t, err)
	require.NotEmpty(t, views)

	for i := range views {
		single, err := d.GetByID(context.Background(), views[i].ID)
		require.NoError(t, err)
		require.Equal(t, *single, views[i], "project %d", views[i].ID)
	}
}

func TestAbsentLookupsResolveToNull(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)
	d := NewDecorator(db)

	view, err := d.GetByID(context.Background(), 2)
	require.NoError(t, err)
	require.Nil(t, view.Category)
	require.Nil(t, view.Team)
	require.Nil(t, view.Status)
	require.Nil(t, view.Priority)
	require.Nil(t, view.DueDate)
	require.NotNil(t, view.Owners)
	require.Empty(t, view.Owners)
	require.NotNil(t, view.Boards)
	require.Empty(t, view.Boards)
	require.NotNil(t, view.Subtasks)
	require.Empty(t, view.Subtasks)
}

func TestDanglingLookupIDsResolveToNull(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)
	d := NewDecorator(db)

	view, err := d.GetByID(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, uintPtr(77), view.CategoryID)
	require.Nil(t, view.Category)
	require.Nil(t, view.Team)
}

func TestDecoratedProject(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)
	d := NewDecorator(db)

	view, err := d.GetByID(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, strPtr("internal"), view.Category)
	require.Equal(t, strPtr("Platform"), view.Team)
	require.Equal(t, strPtr("on-track"), view.Status)
	require.Equal(t, strPtr("high"), view.Priority)

	require.Len(t, view.Owners, 2)
	require.Equal(t, "Alice", view.Owners[0].Name)
	require.Equal(t, strPtr("alice@company.com"), view.Owners[0].Email)
	require.Equal(t, "Bob", view.Owners[1].Name)
	require.Nil(t, view.Owners[1].Email)

	require.Len(t, view.Boards, 2)
	require.Equal(t, "Roadmap", view.Boards[0].Name)

	// Soft-deleted tasks are excluded; unresolved assignees read "Unassigned".
	require.Len(t, view.Subtasks, 3)
	require.Equal(t, "Alice", view.Subtasks[0].Assignee)
	require.Equal(t, UnassignedLabel, view.Subtasks[1].Assignee)
	require.Equal(t, UnassignedLabel, view.Subtasks[2].Assignee)
	for _, st := range view.Subtasks {
		require.False(t, st.Completed)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)
	d := NewDecorator(db)

	_, err := d.GetByID(context.Background(), 999)
	require.ErrorIs(t, err, project.ErrProjectNotFound)

	// Soft-deleted projects are absent from the API's point of view.
	_, err = d.GetByID(context.Background(), 3)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestDuplicateLinksAreTolerated(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)
	require.NoError(t, db.Create(&model.ProjectOwner{ProjectID: 2, OwnerID: 1}).Error)
	require.NoError(t, db.Create(&model.ProjectOwner{ProjectID: 2, OwnerID: 1}).Error)
	d := NewDecorator(db)

	view, err := d.GetByID(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, view.Owners, 2)
	require.Equal(t, view.Owners[0], view.Owners[1])
}

func TestDueDateFormatting(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)
	svc := project.NewDBService(db)

	created, err := svc.Create(context.Background(), &project.CreateInput{
		Title:   "Dated",
		DueDate: strPtr("2025-03-01"),
	})
	require.NoError(t, err)

	d := NewDecorator(db)
	view, err := d.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, strPtr("2025-03-01"), view.DueDate)
	require.WithinDuration(t, time.Now(), view.CreatedAt, time.Minute)
}
