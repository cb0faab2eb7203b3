package master

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nexboard/nexboard/dao/model"
	"github.com/nexboard/nexboard/pkg/db/orm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, orm.SyncSchema(db))
	return db
}

func seedLookups(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&[]model.Team{{Name: "Platform"}, {Name: "Mobile"}}).Error)
	require.NoError(t, db.Create(&model.Employee{Name: "Alice"}).Error)
	require.NoError(t, db.Create(&[]model.Board{{Name: "Roadmap"}, {Name: "Sprint"}, {Name: "Bugs"}}).Error)
	require.NoError(t, db.Create(&model.ProjectStatus{Name: "on-track"}).Error)
	require.NoError(t, db.Create(&model.ProjectPriority{Name: "high"}).Error)
	require.NoError(t, db.Create(&model.ProjectCategory{Name: "internal"}).Error)
}

func TestAll(t *testing.T) {
	db := newTestDB(t)
	seedLookups(t, db)
	svc := NewDBService(db)

	data, err := svc.All(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Teams, 2)
	require.Len(t, data.Employees, 1)
	require.Len(t, data.Boards, 3)
	require.Len(t, data.Statuses, 1)
	require.Len(t, data.Priorities, 1)
	require.Len(t, data.Categories, 1)
	require.Equal(t, "Alice", data.Employees[0].Name)
}

func TestByType(t *testing.T) {
	db := newTestDB(t)
	seedLookups(t, db)
	svc := NewDBService(db)

	data, count, err := svc.ByType(context.Background(), "boards")
	require.NoError(t, err)
	require.Equal(t, 3, count)
	boards, ok := data.([]model.Board)
	require.True(t, ok)
	require.Len(t, boards, 3)
}

func TestByTypeCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	seedLookups(t, db)
	svc := NewDBService(db)

	for _, typ := range []string{"TEAMS", "Teams", " teams "} {
		data, count, err := svc.ByType(context.Background(), typ)
		require.NoError(t, err, typ)
		require.Equal(t, 2, count)
		require.IsType(t, []model.Team{}, data)
	}
}

func TestByTypeUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := NewDBService(db)

	_, _, err := svc.ByType(context.Background(), "bogus")
	require.ErrorIs(t, err, ErrUnknownType)
	for _, typ := range Types {
		require.Contains(t, err.Error(), typ)
	}

	_, _, err = svc.ByType(context.Background(), "")
	require.ErrorIs(t, err, ErrUnknownType)
}
