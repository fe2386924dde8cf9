package views

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wuulong/WalkGISApp/methods"
	"github.com/wuulong/WalkGISApp/models"
	"github.com/wuulong/WalkGISApp/services"
)

// MapController 地图与要素查询接口
type MapController struct {
	walkgis *services.WalkGISService
	report  *services.ReportService
}

// NewMapController 创建地图控制器
func NewMapController(walkgis *services.WalkGISService, report *services.ReportService) *MapController {
	return &MapController{
		walkgis: walkgis,
		report:  report,
	}
}

// nodeFromQuery 解析请求针对的节点，缺省为当前活动节点
func nodeFromQuery(c *gin.Context) string {
	node := c.Query("node")
	if node == "" {
		node = services.GetSourceState().ActiveNode()
	}
	return node
}

// respondError 统一错误出口，切换拆除期间的失败静默降级
func respondError(c *gin.Context, err error) {
	state := services.GetSourceState()
	if state.SuppressError(err) {
		c.JSON(http.StatusOK, gin.H{
			"code": 0,
			"data": nil,
			"msg":  "reloading",
		})
		return
	}
	state.MarkError(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"code": -1,
		"data": nil,
		"msg":  err.Error(),
		"kind": string(services.BindErrKind(err)),
	})
}

// GetMaps 地图列表
func (ctrl *MapController) GetMaps(c *gin.Context) {
	node := nodeFromQuery(c)
	maps := ctrl.walkgis.ListMaps(node)

	// 补全封面图地址
	type mapWithCover struct {
		models.WalkingMap
		CoverImageURL string `json:"coverImageUrl"`
	}
	out := make([]mapWithCover, 0, len(maps))
	for _, m := range maps {
		out = append(out, mapWithCover{
			WalkingMap:    m,
			CoverImageURL: methods.ResolveImagePath(node, m.CoverImage),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": out,
		"msg":  "success",
	})
}

// GetMapFeatures 地图详情：地图元信息与按顺序排列的要素
func (ctrl *MapController) GetMapFeatures(c *gin.Context) {
	node := nodeFromQuery(c)
	mapID := c.Param("mapId")

	walkMap, err := ctrl.walkgis.GetMap(node, mapID)
	if err != nil {
		respondError(c, err)
		return
	}
	features, err := ctrl.walkgis.ListFeaturesForMap(node, mapID)
	if err != nil {
		respondError(c, err)
		return
	}
	services.GetSourceState().MarkBound()

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"map":      walkMap,
			"features": features,
		},
		"msg": "success",
	})
}

// GetAllFeatures 全部要素，供就近搜索使用
func (ctrl *MapController) GetAllFeatures(c *gin.Context) {
	node := nodeFromQuery(c)

	features, err := ctrl.walkgis.ListAllFeatures(node)
	if err != nil {
		respondError(c, err)
		return
	}
	services.GetSourceState().MarkBound()

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": features,
		"msg":  "success",
	})
}

// SearchFeatures 按名称搜索要素
func (ctrl *MapController) SearchFeatures(c *gin.Context) {
	node := nodeFromQuery(c)
	term := c.Query("q")

	features := ctrl.walkgis.SearchFeaturesByName(node, term)
	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": features,
		"msg":  "success",
	})
}

// ExportKML 导出地图要素为KML
func (ctrl *MapController) ExportKML(c *gin.Context) {
	node := nodeFromQuery(c)
	mapID := c.Param("mapId")

	features, err := ctrl.walkgis.ListFeaturesForMap(node, mapID)
	if err != nil {
		respondError(c, err)
		return
	}

	kml := methods.GenerateKML(features)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.kml"`, mapID))
	c.Data(http.StatusOK, "application/vnd.google-earth.kml+xml", []byte(kml))
}

// ExportReport 导出地图的纯文本上下文报告
func (ctrl *MapController) ExportReport(c *gin.Context) {
	node := nodeFromQuery(c)
	mapID := c.Param("mapId")

	report, err := ctrl.report.BuildContextReport(node, mapID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.txt"`, mapID))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}
