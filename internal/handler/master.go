package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/nexboard/nexboard/internal/resputil"
	"github.com/nexboard/nexboard/internal/util"
	"github.com/nexboard/nexboard/pkg/db/master"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewMasterMgr)
}

type MasterMgr struct {
	name     string
	masterDB master.DBService
}

func NewMasterMgr(conf *RegisterConfig) Manager {
	return &MasterMgr{
		name:     "master",
		masterDB: conf.MasterDB,
	}
}

func (mgr *MasterMgr) GetName() string { return mgr.name }

func (mgr *MasterMgr) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("", mgr.GetMasterData)
	g.GET("/all", mgr.GetAllMasterData)
}

// GetAllMasterData godoc
// @Summary Fetch all six lookup lists at once
// @Description The six tables are queried concurrently; any single failure fails the whole call
// @Tags Master
// @Produce json
// @Success 200 {object} resputil.Response[master.AllData]
// @Failure 500 {object} resputil.Response[any] "store error"
// @Router /api/master/all [get]
func (mgr *MasterMgr) GetAllMasterData(c *gin.Context) {
	data, err := mgr.masterDB.All(c.Request.Context())
	if err != nil {
		klog.Errorf("fetch all master data failed, request %s: %v", util.GetRequestID(c), err)
		resputil.Error(c, "Failed to fetch all master data", resputil.StoreError)
		return
	}
	resputil.Success(c, gin.H{
		"message": "All master data fetched successfully",
		"data":    data,
	})
}

// GetMasterData godoc
// @Summary Fetch one lookup list by type selector
// @Description type is case-insensitive, one of teams, employees, boards, status, priority, category
// @Tags Master
// @Produce json
// @Param type query string true "master data type"
// @Success 200 {object} resputil.Response[any]
// @Failure 400 {object} resputil.Response[any] "missing or unknown type"
// @Failure 500 {object} resputil.Response[any] "store error"
// @Router /api/master [get]
func (mgr *MasterMgr) GetMasterData(c *gin.Context) {
	typ := c.Query("type")
	if typ == "" {
		resputil.HTTPError(c, 400,
			"type is required; valid values: "+strings.Join(master.Types, ", "),
			resputil.InvalidRequest)
		return
	}

	data, count, err := mgr.masterDB.ByType(c.Request.Context(), typ)
	if err != nil {
		if errors.Is(err, master.ErrUnknownType) {
			resputil.HTTPError(c, 400, err.Error(), resputil.InvalidRequest)
			return
		}
		klog.Errorf("fetch master data %q failed, request %s: %v", typ, util.GetRequestID(c), err)
		resputil.Error(c, "Failed to fetch master data", resputil.StoreError)
		return
	}
	resputil.Success(c, gin.H{
		"type":  strings.ToLower(strings.TrimSpace(typ)),
		"count": count,
		"data":  data,
	})
}
