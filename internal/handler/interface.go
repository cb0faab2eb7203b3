package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nexboard/nexboard/pkg/aggregate"
	"github.com/nexboard/nexboard/pkg/db/comment"
	"github.com/nexboard/nexboard/pkg/db/master"
	"github.com/nexboard/nexboard/pkg/db/project"
)

type Manager interface {
	GetName() string
	RegisterRoutes(group *gin.RouterGroup)
}

// RegisterConfig carries the injected store services every manager may need.
type RegisterConfig struct {
	DB        *gorm.DB
	ProjectDB project.DBService
	MasterDB  master.DBService
	CommentDB comment.DBService
	Decorator *aggregate.Decorator
}

type ManagerRegister func(conf *RegisterConfig) Manager

// Registers collects the manager constructors; each handler file appends its
// own from init().
var Registers []ManagerRegister
