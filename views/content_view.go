package views

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wuulong/WalkGISApp/services"
)

// ContentController 节点附属内容代理接口
type ContentController struct {
	proxy *services.ContentProxyService
}

// NewContentController 创建内容控制器
func NewContentController(proxy *services.ContentProxyService) *ContentController {
	return &ContentController{proxy: proxy}
}

// FeatureDoc 要素长文
func (ctrl *ContentController) FeatureDoc(c *gin.Context) {
	node := nodeFromQuery(c)
	featureID := c.Param("featureId")

	data, contentType, err := ctrl.proxy.FetchFeatureDoc(node, featureID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code": -1,
			"data": nil,
			"msg":  err.Error(),
		})
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// MapDoc 地图长文
func (ctrl *ContentController) MapDoc(c *gin.Context) {
	node := nodeFromQuery(c)
	mapID := c.Param("mapId")

	data, contentType, err := ctrl.proxy.FetchMapDoc(node, mapID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code": -1,
			"data": nil,
			"msg":  err.Error(),
		})
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// Image 节点图片
func (ctrl *ContentController) Image(c *gin.Context) {
	node := nodeFromQuery(c)
	filename := c.Param("filename")

	data, contentType, err := ctrl.proxy.FetchImage(node, filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code": -1,
			"data": nil,
			"msg":  err.Error(),
		})
		return
	}
	c.Header("Cache-Control", "public, max-age=600")
	c.Data(http.StatusOK, contentType, data)
}
