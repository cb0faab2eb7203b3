package model

import (
	"time"

	"gorm.io/datatypes"
)

// Project is the root entity. All lookup foreign keys are optional; views
// resolve absent links to null rather than failing.
//
// Soft delete is an explicit flag instead of gorm.DeletedAt so that deleted
// rows stay visible to the retention sweeper and are never filtered by an
// implicit query scope.
type Project struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"type:varchar(150);not null" json:"title"`
	Description *string         `gorm:"type:text" json:"description"`
	CategoryID  *uint           `json:"categoryId"`
	TeamID      *uint           `json:"teamId"`
	StatusID    *uint           `json:"statusId"`
	PriorityID  *uint           `json:"priorityId"`
	DueDate     *datatypes.Date `gorm:"type:date" json:"dueDate"`
	IsDeleted   bool            `gorm:"not null;default:false" json:"isDeleted"`
	DeletedAt   *time.Time      `json:"-"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProjectOwner and ProjectBoard are pure join rows. No primary key and no
// unique constraint: duplicate links are allowed by the schema and must be
// tolerated downstream. Membership is replaced wholesale on update.
type ProjectOwner struct {
	ProjectID uint `gorm:"index;not null" json:"projectId"`
	OwnerID   uint `gorm:"not null" json:"ownerId"`
}

type ProjectBoard struct {
	ProjectID uint `gorm:"index;not null" json:"projectId"`
	BoardID   uint `gorm:"not null" json:"boardId"`
}
