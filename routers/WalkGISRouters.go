package routers

import (
	"github.com/gin-gonic/gin"
	"github.com/wuulong/WalkGISApp/config"
	"github.com/wuulong/WalkGISApp/services"
	"github.com/wuulong/WalkGISApp/views"
)

func WalkGISRouters(r *gin.Engine) {
	registry := services.NewRegistryService(config.RegistryURL)
	validator := services.NewValidatorService(services.ValidateTimeout)
	walkgis := services.NewWalkGISService(services.GetConnectionManager())
	report := services.NewReportService(walkgis)
	proxy := services.NewContentProxyService()

	sourceCtrl := views.NewSourceController(registry, validator)
	mapCtrl := views.NewMapController(walkgis, report)
	contentCtrl := views.NewContentController(proxy)

	hub := views.NewReloadHub()
	services.GetSourceState().OnReload(hub.BroadcastReload)

	sourceRouter := r.Group("/api/sources")
	{
		sourceRouter.GET("", sourceCtrl.GetSources)
		sourceRouter.GET("/active", sourceCtrl.GetActiveSource)
		sourceRouter.POST("/validate", sourceCtrl.ValidateSource)
		sourceRouter.POST("/switch", sourceCtrl.SwitchSource)
	}
	mapRouter := r.Group("/api/maps")
	{
		mapRouter.GET("", mapCtrl.GetMaps)
		mapRouter.GET("/:mapId/features", mapCtrl.GetMapFeatures)
		mapRouter.GET("/:mapId/kml", mapCtrl.ExportKML)
		mapRouter.GET("/:mapId/report", mapCtrl.ExportReport)
	}
	featureRouter := r.Group("/api/features")
	{
		featureRouter.GET("", mapCtrl.GetAllFeatures)
		featureRouter.GET("/search", mapCtrl.SearchFeatures)
	}
	contentRouter := r.Group("/content")
	{
		contentRouter.GET("/features/:featureId", contentCtrl.FeatureDoc)
		contentRouter.GET("/maps/:mapId", contentCtrl.MapDoc)
		contentRouter.GET("/images/:filename", contentCtrl.Image)
	}
	r.GET("/ws", hub.HandleWS)
}
