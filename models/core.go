package models

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var AppDB *gorm.DB

// AppState 本地应用状态，按固定键持久化单个字符串值
type AppState struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value"`
}

func (AppState) TableName() string {
	return "app_state"
}

// 当前激活节点地址的存储键
const ActiveNodeKey = "active_node_url"

// InitDatabase 初始化本地状态SQLite数据库
func InitDatabase(storagePath string) error {
	// 确保目录存在
	if err := os.MkdirAll(storagePath, os.ModePerm); err != nil {
		log.Printf("创建存储目录失败: %v", err)
		return err
	}

	dbPath := filepath.Join(storagePath, "walkgis_app.db")
	log.Printf("本地状态数据库路径: %s", dbPath)

	var err error
	AppDB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("连接数据库失败: %v", err)
		return err
	}

	// 自动迁移，创建表结构
	if err := AppDB.AutoMigrate(&AppState{}); err != nil {
		log.Printf("数据库迁移失败: %v", err)
		return err
	}

	return nil
}

func GetDB() *gorm.DB {
	return AppDB
}

// GetStateValue 读取持久化状态值，不存在时返回空串
func GetStateValue(key string) string {
	if AppDB == nil {
		return ""
	}
	var state AppState
	result := AppDB.First(&state, "key = ?", key)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return ""
	}
	if result.Error != nil {
		log.Printf("读取状态失败: %v", result.Error)
		return ""
	}
	return state.Value
}

// SaveStateValue 写入持久化状态值
func SaveStateValue(key, value string) error {
	if AppDB == nil {
		return errors.New("state database not initialized")
	}
	state := AppState{Key: key, Value: value}
	return AppDB.Save(&state).Error
}
