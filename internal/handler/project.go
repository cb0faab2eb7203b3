package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/nexboard/nexboard/internal/payload"
	"github.com/nexboard/nexboard/internal/resputil"
	"github.com/nexboard/nexboard/internal/util"
	"github.com/nexboard/nexboard/pkg/aggregate"
	"github.com/nexboard/nexboard/pkg/db/project"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewProjectMgr)
}

type ProjectMgr struct {
	name      string
	projectDB project.DBService
	decorator *aggregate.Decorator
}

func NewProjectMgr(conf *RegisterConfig) Manager {
	return &ProjectMgr{
		name:      "projects",
		projectDB: conf.ProjectDB,
		decorator: conf.Decorator,
	}
}

func (mgr *ProjectMgr) GetName() string { return mgr.name }

func (mgr *ProjectMgr) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("", mgr.CreateProject)
	g.GET("", mgr.ListProjects)
	g.GET("/:id", mgr.GetProject)
	g.PUT("/:id", mgr.UpdateProject)
	g.DELETE("/:id", mgr.DeleteProject)
	g.DELETE("/tasks/:id", mgr.DeleteTask)
}

type (
	TaskReq struct {
		Title      string  `json:"title" binding:"required"`
		DueDate    *string `json:"dueDate"`
		AssignedTo *uint   `json:"assignedTo"`
		Completed  bool    `json:"completed"`
	}

	ProjectCreateReq struct {
		Title       string    `json:"title" binding:"required"`
		Description *string   `json:"description"`
		CategoryID  *uint     `json:"categoryId"`
		TeamID      *uint     `json:"teamId"`
		StatusID    *uint     `json:"statusId"`
		PriorityID  *uint     `json:"priorityId"`
		DueDate     *string   `json:"dueDate"`
		Owners      []uint    `json:"owners"`
		Boards      []uint    `json:"boards"`
		Tasks       []TaskReq `json:"tasks"`
	}

	// ProjectUpdateReq is a full-field SET: omitted optional fields clear
	// their columns. Owners/boards/tasks, when present, replace the existing
	// sets wholesale.
	ProjectUpdateReq struct {
		Title       string     `json:"title" binding:"required"`
		Description *string    `json:"description"`
		CategoryID  *uint      `json:"categoryId"`
		TeamID      *uint      `json:"teamId"`
		StatusID    *uint      `json:"statusId"`
		PriorityID  *uint      `json:"priorityId"`
		DueDate     *string    `json:"dueDate"`
		Owners      *[]uint    `json:"owners"`
		Boards      *[]uint    `json:"boards"`
		Tasks       *[]TaskReq `json:"tasks"`
	}
)

func taskInputs(reqs []TaskReq) []project.TaskInput {
	ins := make([]project.TaskInput, 0, len(reqs))
	for _, r := range reqs {
		ins = append(ins, project.TaskInput{
			Title:      r.Title,
			DueDate:    r.DueDate,
			AssignedTo: r.AssignedTo,
			Completed:  r.Completed,
		})
	}
	return ins
}

// CreateProject godoc
// @Summary Create a project with optional owners, boards and tasks
// @Description Inserts the project and all supplied children in one transaction
// @Tags Projects
// @Accept json
// @Produce json
// @Param data body ProjectCreateReq true "project fields"
// @Success 201 {object} resputil.Response[aggregate.ProjectView]
// @Failure 400 {object} resputil.Response[any] "invalid input"
// @Failure 500 {object} resputil.Response[any] "store error"
// @Router /api/projects [post]
func (mgr *ProjectMgr) CreateProject(c *gin.Context) {
	var req ProjectCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
		return
	}

	created, err := mgr.projectDB.Create(c.Request.Context(), &project.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		TeamID:      req.TeamID,
		StatusID:    req.StatusID,
		PriorityID:  req.PriorityID,
		DueDate:     req.DueDate,
		Owners:      req.Owners,
		Boards:      req.Boards,
		Tasks:       taskInputs(req.Tasks),
	})
	if err != nil {
		if errors.Is(err, project.ErrInvalidInput) {
			resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
			return
		}
		klog.Errorf("create project failed, request %s: %v", util.GetRequestID(c), err)
		resputil.Error(c, "Failed to create project", resputil.StoreError)
		return
	}

	view, err := mgr.decorator.GetByID(c.Request.Context(), created.ID)
	if err != nil {
		klog.Errorf("decorate created project %d failed, request %s: %v", created.ID, util.GetRequestID(c), err)
		resputil.Error(c, "Failed to create project", resputil.StoreError)
		return
	}
	resputil.Created(c, gin.H{"message": "Project created successfully", "project": view})
}

// ListProjects godoc
// @Summary List non-deleted projects with pagination
// @Description Each project is decorated with lookup names, owners, boards and subtasks
// @Tags Projects
// @Produce json
// @Param page query int false "1-indexed page" default(1)
// @Param limit query int false "page size" default(10)
// @Success 200 {object} resputil.Response[[]aggregate.ProjectView]
// @Failure 400 {object} resputil.Response[any] "invalid paging"
// @Failure 500 {object} resputil.Response[any] "store error"
// @Router /api/projects [get]
func (mgr *ProjectMgr) ListProjects(c *gin.Context) {
	var q payload.ListReqQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
		return
	}
	page, limit := q.Normalize()

	views, total, err := mgr.decorator.ListPage(c.Request.Context(), page, limit)
	if err != nil {
		klog.Errorf("list projects failed, request %s: %v", util.GetRequestID(c), err)
		resputil.Error(c, "Failed to fetch projects", resputil.StoreError)
		return
	}
	resputil.Success(c, gin.H{
		"total":    total,
		"page":     page,
		"limit":    limit,
		"projects": views,
	})
}

// GetProject godoc
// @Summary Get one non-deleted project by id
// @Tags Projects
// @Produce json
// @Param id path int true "project id"
// @Success 200 {object} resputil.Response[aggregate.ProjectView]
// @Failure 400 {object} resputil.Response[any] "non-numeric id"
// @Failure 404 {object} resputil.Response[any] "absent or deleted"
// @Router /api/projects/{id} [get]
func (mgr *ProjectMgr) GetProject(c *gin.Context) {
	id, err := util.ParseUintParam(c, "id")
	if err != nil {
		resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
		return
	}

	view, err := mgr.decorator.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			resputil.HTTPError(c, 404, "Project not found", resputil.NotFound)
			return
		}
		klog.Errorf("get project %d failed, request %s: %v", id, util.GetRequestID(c), err)
		resputil.Error(c, "Failed to fetch project", resputil.StoreError)
		return
	}
	resputil.Success(c, gin.H{"project": view})
}

// UpdateProject godoc
// @Summary Update a project, optionally replacing owners, boards and tasks
// @Description Scalar fields are overwritten with the supplied state; supplied link sets replace the stored ones wholesale
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "project id"
// @Param data body ProjectUpdateReq true "desired project state"
// @Success 200 {object} resputil.Response[aggregate.ProjectView]
// @Failure 400 {object} resputil.Response[any] "invalid input"
// @Failure 404 {object} resputil.Response[any] "absent or deleted"
// @Failure 500 {object} resputil.Response[any] "store error"
// @Router /api/projects/{id} [put]
func (mgr *ProjectMgr) UpdateProject(c *gin.Context) {
	id, err := util.ParseUintParam(c, "id")
	if err != nil {
		resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
		return
	}
	var req ProjectUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
		return
	}

	in := &project.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		TeamID:      req.TeamID,
		StatusID:    req.StatusID,
		PriorityID:  req.PriorityID,
		DueDate:     req.DueDate,
		Owners:      req.Owners,
		Boards:      req.Boards,
	}
	if req.Tasks != nil {
		tasks := taskInputs(*req.Tasks)
		in.Tasks = &tasks
	}

	if err := mgr.projectDB.Update(c.Request.Context(), id, in); err != nil {
		switch {
		case errors.Is(err, project.ErrProjectNotFound):
			resputil.HTTPError(c, 404, "Project not found", resputil.NotFound)
		case errors.Is(err, project.ErrInvalidInput):
			resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
		default:
			klog.Errorf("update project %d failed, request %s: %v", id, util.GetRequestID(c), err)
			resputil.Error(c, "Failed to update project", resputil.StoreError)
		}
		return
	}

	view, err := mgr.decorator.GetByID(c.Request.Context(), id)
	if err != nil {
		klog.Errorf("decorate updated project %d failed, request %s: %v", id, util.GetRequestID(c), err)
		resputil.Error(c, "Failed to update project", resputil.StoreError)
		return
	}
	resputil.Success(c, gin.H{"message": "Project updated successfully", "project": view})
}

// DeleteProject godoc
// @Summary Soft-delete a project and all its tasks
// @Tags Projects
// @Produce json
// @Param id path int true "project id"
// @Success 200 {object} resputil.Response[any]
// @Failure 400 {object} resputil.Response[any] "non-numeric id"
// @Failure 404 {object} resputil.Response[any] "absent or already deleted"
// @Failure 500 {object} resputil.Response[any] "store error"
// @Router /api/projects/{id} [delete]
func (mgr *ProjectMgr) DeleteProject(c *gin.Context) {
	id, err := util.ParseUintParam(c, "id")
	if err != nil {
		resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
		return
	}

	if err := mgr.projectDB.SoftDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			resputil.HTTPError(c, 404, "Project not found", resputil.NotFound)
			return
		}
		klog.Errorf("delete project %d failed, request %s: %v", id, util.GetRequestID(c), err)
		resputil.Error(c, "Failed to delete project", resputil.StoreError)
		return
	}
	resputil.Success(c, gin.H{"message": "Project and its tasks deleted successfully"})
}

// DeleteTask godoc
// @Summary Soft-delete a single task
// @Tags Projects
// @Produce json
// @Param id path int true "task id"
// @Success 200 {object} resputil.Response[any]
// @Failure 400 {object} resputil.Response[any] "non-numeric id"
// @Failure 404 {object} resputil.Response[any] "absent or already deleted"
// @Failure 500 {object} resputil.Response[any] "store error"
// @Router /api/projects/tasks/{id} [delete]
func (mgr *ProjectMgr) DeleteTask(c *gin.Context) {
	id, err := util.ParseUintParam(c, "id")
	if err != nil {
		resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
		return
	}

	if err := mgr.projectDB.SoftDeleteTask(c.Request.Context(), id); err != nil {
		if errors.Is(err, project.ErrTaskNotFound) {
			resputil.HTTPError(c, 404, "Task not found", resputil.NotFound)
			return
		}
		klog.Errorf("delete task %d failed, request %s: %v", id, util.GetRequestID(c), err)
		resputil.Error(c, "Failed to delete task", resputil.StoreError)
		return
	}
	resputil.Success(c, gin.H{"message": "Task deleted successfully"})
}
