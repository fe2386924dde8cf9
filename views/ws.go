package views

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 本地查看器，放开来源检查
		return true
	},
}

// ReloadHub 页面重载推送
// 节点切换后旧节点的页面状态全部作废，通过该通道要求前端整页重载
type ReloadHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewReloadHub 创建推送中心
func NewReloadHub() *ReloadHub {
	return &ReloadHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// HandleWS 处理websocket接入
func (h *ReloadHub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket升级失败: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// 读循环只用于感知断开
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// BroadcastReload 通知所有客户端重载到指定节点
func (h *ReloadHub) BroadcastReload(nodeURL string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := map[string]string{"event": "reload", "node": nodeURL}
	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
