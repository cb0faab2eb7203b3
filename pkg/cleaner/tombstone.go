// Package cleaner purges soft-deleted rows once they age past the configured
// retention window. The API itself never removes rows physically; this runs
// only when an operator enables it.
package cleaner

import (
	"context"
	"time"

	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/nexboard/nexboard/dao/model"
)

type TombstoneCleaner struct {
	db     *gorm.DB
	retain time.Duration
}

func NewTombstoneCleaner(db *gorm.DB, retainDays int) *TombstoneCleaner {
	return &TombstoneCleaner{
		db:     db,
		retain: time.Duration(retainDays) * 24 * time.Hour,
	}
}

// Run deletes tombstoned tasks and projects older than the cutoff, together
// with the links and comments that belong to the purged rows. One
// transaction, so a partial purge cannot be observed.
func (tc *TombstoneCleaner) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-tc.retain)
	var purgedTasks, purgedProjects int64

	err := tc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint
		if err := tx.Model(&model.Task{}).
			Where("is_deleted = ? AND deleted_at < ?", true, cutoff).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("entity_type = ? AND entity_id IN ?",
				model.CommentEntityTask, taskIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			res := tx.Where("id IN ?", taskIDs).Delete(&model.Task{})
			if res.Error != nil {
				return res.Error
			}
			purgedTasks = res.RowsAffected
		}

		var projectIDs []uint
		if err := tx.Model(&model.Project{}).
			Where("is_deleted = ? AND deleted_at < ?", true, cutoff).
			Pluck("id", &projectIDs).Error; err != nil {
			return err
		}
		if len(projectIDs) > 0 {
			for _, owned := range []any{&model.ProjectOwner{}, &model.ProjectBoard{}, &model.Task{}} {
				if err := tx.Where("project_id IN ?", projectIDs).Delete(owned).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("entity_type = ? AND entity_id IN ?",
				model.CommentEntityProject, projectIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			res := tx.Where("id IN ?", projectIDs).Delete(&model.Project{})
			if res.Error != nil {
				return res.Error
			}
			purgedProjects = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return err
	}

	klog.Infof("tombstone sweep purged %d projects and %d tasks older than %s",
		purgedProjects, purgedTasks, cutoff.Format(time.RFC3339))
	return nil
}
