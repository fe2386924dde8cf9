package services

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// AcquireEngine 按优先级顺序选取可用的嵌入式数据库引擎
// 原始实现从多个分发端点拉取引擎运行时，这里引擎随二进制链接，
// 退化为在已注册的驱动中按顺序确认，保留尝试列表与独立的错误类别
func AcquireEngine(providers []string) (string, error) {
	registered := make(map[string]bool)
	for _, name := range sql.Drivers() {
		registered[name] = true
	}

	for _, name := range providers {
		if registered[name] {
			return name, nil
		}
	}

	return "", fmt.Errorf("no usable database engine, tried: %s", strings.Join(providers, ", "))
}
