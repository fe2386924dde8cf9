package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/wuulong/WalkGISApp/config"
	"github.com/wuulong/WalkGISApp/methods"
	"github.com/wuulong/WalkGISApp/models"
	"github.com/wuulong/WalkGISApp/routers"
	"github.com/wuulong/WalkGISApp/services"
)

func main() {
	if err := models.InitDatabase(config.Download); err != nil {
		log.Fatalf("本地状态数据库初始化失败: %v", err)
	}

	services.InitConnectionManager(config.Download)
	services.InitSourceState(config.DefaultNode)

	r := gin.Default()
	routers.WalkGISRouters(r)

	addr := fmt.Sprintf("%s:%s", config.Host, config.Port)
	if config.OpenBrowser {
		if err := methods.OpenURL("http://" + addr); err != nil {
			log.Printf("打开浏览器失败: %v", err)
		}
	}

	log.Printf("WalkGIS查看器启动: http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("服务启动失败: %v", err)
	}
}
