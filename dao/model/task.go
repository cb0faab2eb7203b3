package model

import (
	"time"

	"gorm.io/datatypes"
)

type Task struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Title      string          `gorm:"type:varchar(150);not null" json:"title"`
	DueDate    *datatypes.Date `gorm:"type:date" json:"dueDate"`
	AssignedTo *uint           `json:"assignedTo"`
	ProjectID  uint            `gorm:"index;not null" json:"projectId"`
	Completed  bool            `gorm:"not null;default:false" json:"completed"`
	IsDeleted  bool            `gorm:"not null;default:false" json:"isDeleted"`
	DeletedAt  *time.Time      `json:"-"`
	CreatedAt  time.Time       `json:"createdAt"`
}
