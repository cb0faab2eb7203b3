package model

import "time"

// CommentEntity tags which kind of record a comment is attached to.
type CommentEntity string

const (
	CommentEntityProject CommentEntity = "project"
	CommentEntityTask    CommentEntity = "task"
)

// Comment attaches freeform commentary to a project or a task. Attribution is
// one of two modes: UserName carries a free-text author (project comments),
// UserID references an Employee (task comments). Exactly one is set per row.
type Comment struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	EntityType CommentEntity `gorm:"type:varchar(16);index:idx_comments_entity;not null" json:"entityType"`
	EntityID   uint          `gorm:"index:idx_comments_entity;not null" json:"entityId"`
	Content    string        `gorm:"type:text;not null" json:"content"`
	UserName   *string       `gorm:"type:varchar(100)" json:"userName,omitempty"`
	UserID     *uint         `json:"userId,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}
