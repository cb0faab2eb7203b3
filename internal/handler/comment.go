package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/nexboard/nexboard/internal/resputil"
	"github.com/nexboard/nexboard/internal/util"
	"github.com/nexboard/nexboard/pkg/db/comment"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewCommentMgr)
}

type CommentMgr struct {
	name      string
	commentDB comment.DBService
}

func NewCommentMgr(conf *RegisterConfig) Manager {
	return &CommentMgr{
		name:      "comments",
		commentDB: conf.CommentDB,
	}
}

func (mgr *CommentMgr) GetName() string { return mgr.name }

func (mgr *CommentMgr) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("", mgr.AddTaskComment)
	g.POST("/project", mgr.AddProjectComment)
	g.GET("/task/:taskId", mgr.ListTaskComments)
	g.GET("/project/:projectId", mgr.ListProjectComments)
}

type (
	TaskCommentReq struct {
		TaskID  *uint  `json:"taskId" binding:"required"`
		UserID  *uint  `json:"userId" binding:"required"`
		Content string `json:"content" binding:"required"`
	}

	ProjectCommentReq struct {
		ProjectID *uint   `json:"projectId" binding:"required"`
		Content   string  `json:"content" binding:"required"`
		UserName  *string `json:"userName"`
	}
)

// AddTaskComment godoc
// @Summary Add a comment to a task, attributed to an employee
// @Tags Comments
// @Accept json
// @Produce json
// @Param data body TaskCommentReq true "comment fields"
// @Success 201 {object} resputil.Response[model.Comment]
// @Failure 400 {object} resputil.Response[any] "missing or invalid field"
// @Failure 404 {object} resputil.Response[any] "task or user absent"
// @Failure 500 {object} resputil.Response[any] "store error"
// @Router /api/comments [post]
func (mgr *CommentMgr) AddTaskComment(c *gin.Context) {
	var req TaskCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
		return
	}

	row, err := mgr.commentDB.AddTaskComment(c.Request.Context(), *req.TaskID, *req.UserID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, comment.ErrEmptyContent):
			resputil.HTTPError(c, 400, "Comment content is required", resputil.InvalidRequest)
		case errors.Is(err, comment.ErrTaskNotFound):
			resputil.HTTPError(c, 404, "Task not found", resputil.NotFound)
		case errors.Is(err, comment.ErrUserNotFound):
			resputil.HTTPError(c, 404, "User not found", resputil.NotFound)
		default:
			klog.Errorf("add task comment failed, request %s: %v", util.GetRequestID(c), err)
			resputil.Error(c, "Failed to add comment", resputil.StoreError)
		}
		return
	}
	resputil.Created(c, gin.H{"message": "Comment added successfully", "comment": row})
}

// AddProjectComment godoc
// @Summary Add a comment to a project with free-text attribution
// @Description userName defaults to "You" when omitted
// @Tags Comments
// @Accept json
// @Produce json
// @Param data body ProjectCommentReq true "comment fields"
// @Success 201 {object} resputil.Response[model.Comment]
// @Failure 400 {object} resputil.Response[any] "missing or invalid field"
// @Failure 404 {object} resputil.Response[any] "project absent"
// @Failure 500 {object} resputil.Response[any] "store error"
// @Router /api/comments/project [post]
func (mgr *CommentMgr) AddProjectComment(c *gin.Context) {
	var req ProjectCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
		return
	}

	row, err := mgr.commentDB.AddProjectComment(c.Request.Context(), *req.ProjectID, req.Content, req.UserName)
	if err != nil {
		switch {
		case errors.Is(err, comment.ErrEmptyContent):
			resputil.HTTPError(c, 400, "Comment content is required", resputil.InvalidRequest)
		case errors.Is(err, comment.ErrProjectNotFound):
			resputil.HTTPError(c, 404, "Project not found", resputil.NotFound)
		default:
			klog.Errorf("add project comment failed, request %s: %v", util.GetRequestID(c), err)
			resputil.Error(c, "Failed to add comment", resputil.StoreError)
		}
		return
	}
	resputil.Created(c, gin.H{"message": "Comment added successfully", "comment": row})
}

// ListTaskComments godoc
// @Summary List a task's comments with authors resolved
// @Tags Comments
// @Produce json
// @Param taskId path int true "task id"
// @Success 200 {object} resputil.Response[[]comment.TaskCommentView]
// @Failure 400 {object} resputil.Response[any] "non-numeric id"
// @Failure 500 {object} resputil.Response[any] "store error"
// @Router /api/comments/task/{taskId} [get]
func (mgr *CommentMgr) ListTaskComments(c *gin.Context) {
	taskID, err := util.ParseUintParam(c, "taskId")
	if err != nil {
		resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
		return
	}

	views, err := mgr.commentDB.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		klog.Errorf("list task %d comments failed, request %s: %v", taskID, util.GetRequestID(c), err)
		resputil.Error(c, "Failed to fetch comments", resputil.StoreError)
		return
	}
	resputil.Success(c, gin.H{"comments": views})
}

// ListProjectComments godoc
// @Summary List a project's comments
// @Tags Comments
// @Produce json
// @Param projectId path int true "project id"
// @Success 200 {object} resputil.Response[[]model.Comment]
// @Failure 400 {object} resputil.Response[any] "non-numeric id"
// @Failure 500 {object} resputil.Response[any] "store error"
// @Router /api/comments/project/{projectId} [get]
func (mgr *CommentMgr) ListProjectComments(c *gin.Context) {
	projectID, err := util.ParseUintParam(c, "projectId")
	if err != nil {
		resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
		return
	}

	rows, err := mgr.commentDB.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		klog.Errorf("list project %d comments failed, request %s: %v", projectID, util.GetRequestID(c), err)
		resputil.Error(c, "Failed to fetch comments", resputil.StoreError)
		return
	}
	resputil.Success(c, gin.H{"comments": rows})
}
