package views

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wuulong/WalkGISApp/services"
)

// SourceController 数据源相关接口
type SourceController struct {
	registry  *services.RegistryService
	validator *services.ValidatorService
}

// NewSourceController 创建数据源控制器
func NewSourceController(registry *services.RegistryService, validator *services.ValidatorService) *SourceController {
	return &SourceController{
		registry:  registry,
		validator: validator,
	}
}

type sourceRequest struct {
	URL string `json:"url" binding:"required"`
}

// GetSources 获取注册表中的推荐节点列表
func (ctrl *SourceController) GetSources(c *gin.Context) {
	sources := ctrl.registry.FetchNodeRegistry()
	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": sources,
		"msg":  "success",
	})
}

// ValidateSource 探测节点可达性，不提交切换
func (ctrl *SourceController) ValidateSource(c *gin.Context) {
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": -1,
			"data": nil,
			"msg":  "url is required",
		})
		return
	}

	valid := ctrl.validator.Validate(req.URL)
	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"url":   req.URL,
			"valid": valid,
		},
		"msg": "success",
	})
}

// SwitchSource 切换活动节点
func (ctrl *SourceController) SwitchSource(c *gin.Context) {
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": -1,
			"data": nil,
			"msg":  "url is required",
		})
		return
	}

	state := services.GetSourceState()
	if err := state.SwitchNode(req.URL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": -1,
			"data": nil,
			"msg":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"activeNode": state.ActiveNode(),
		},
		"msg": "success",
	})
}

// GetActiveSource 查询当前活动节点与状态
func (ctrl *SourceController) GetActiveSource(c *gin.Context) {
	state := services.GetSourceState()
	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"activeNode":  state.ActiveNode(),
			"state":       state.State(),
			"isSwitching": state.IsSwitching(),
			"lastError":   state.LastError(),
		},
		"msg": "success",
	})
}
