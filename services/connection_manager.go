package services

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wuulong/WalkGISApp/config"
	"github.com/wuulong/WalkGISApp/methods"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MinDBSize 数据文件最小字节数，小于该值视为错误页而非数据库
const MinDBSize = 100

// Connection 与单个节点数据集的活动绑定
type Connection struct {
	NodeURL string
	DB      *gorm.DB
	sqlDB   *sql.DB
	dbPath  string
}

// Stmt 预编译语句句柄，调用方必须Close
type Stmt struct {
	stmt *sql.Stmt
}

func (s *Stmt) Query(args ...interface{}) (*sql.Rows, error) {
	return s.stmt.Query(args...)
}

func (s *Stmt) QueryRow(args ...interface{}) *sql.Row {
	return s.stmt.QueryRow(args...)
}

func (s *Stmt) Close() error {
	return s.stmt.Close()
}

// Prepare 在绑定的数据集上预编译查询
func (c *Connection) Prepare(query string) (*Stmt, error) {
	stmt, err := c.sqlDB.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("prepare failed: %w", err)
	}
	return &Stmt{stmt: stmt}, nil
}

// Close 释放绑定并清理挂载文件
func (c *Connection) Close() {
	if c.sqlDB != nil {
		c.sqlDB.Close()
	}
	if c.dbPath != "" {
		os.Remove(c.dbPath)
	}
}

// ConnectionManager 连接管理器，维护唯一的活动绑定
type ConnectionManager struct {
	mu         sync.Mutex
	current    *Connection
	httpClient *http.Client
	storageDir string
	providers  []string
	dbFileName string
}

var (
	connManager *ConnectionManager
	connOnce    sync.Once
)

// NewConnectionManager 创建连接管理器
func NewConnectionManager(storageDir string) *ConnectionManager {
	return &ConnectionManager{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		storageDir: storageDir,
		providers:  config.EngineProviders,
		dbFileName: config.DBFileName,
	}
}

// InitConnectionManager 初始化管理器（在程序启动时调用）
func InitConnectionManager(storageDir string) *ConnectionManager {
	connOnce.Do(func() {
		connManager = NewConnectionManager(storageDir)
	})
	return connManager
}

// GetConnectionManager 获取单例管理器
func GetConnectionManager() *ConnectionManager {
	return connManager
}

// GetConnection 获取节点的活动连接
// 同地址复用缓存连接，不同地址触发完整重新绑定并替换旧连接
func (m *ConnectionManager) GetConnection(nodeURL string) (*Connection, error) {
	nodeURL = methods.NormalizeNodeURL(nodeURL)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.current.NodeURL == nodeURL {
		return m.current, nil
	}

	conn, err := m.bind(nodeURL)
	if err != nil {
		return nil, err
	}

	if m.current != nil {
		m.current.Close()
	}
	m.current = conn
	return conn, nil
}

// Drop 丢弃当前缓存的连接
func (m *ConnectionManager) Drop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.current.Close()
		m.current = nil
	}
}

// bind 执行完整绑定协议，每个阶段记录到阶段日志并附着在错误上
func (m *ConnectionManager) bind(nodeURL string) (*Connection, error) {
	attemptID := uuid.NewString()
	var phases []PhaseEvent
	record := func(phase, detail string) {
		phases = append(phases, PhaseEvent{Phase: phase, Detail: detail, At: time.Now()})
	}
	fail := func(kind ErrKind, err error) error {
		return &BindError{Kind: kind, NodeURL: nodeURL, AttemptID: attemptID, Phases: phases, Err: err}
	}

	// 阶段1: 引擎获取
	record("engine_acquire", "")
	engine, err := AcquireEngine(m.providers)
	if err != nil {
		return nil, fail(ErrKindEngine, err)
	}
	record("engine_ready", engine)

	// 阶段2: 下载数据文件，强制绕过缓存
	payloadURL := nodeURL + m.dbFileName
	record("payload_fetch", payloadURL)
	payload, err := m.fetchPayload(payloadURL)
	if err != nil {
		return nil, fail(ErrKindFetch, err)
	}
	record("payload_done", fmt.Sprintf("%d bytes", len(payload)))

	// 阶段3: 文件尺寸检查，拦截静态托管返回的HTML错误页
	if len(payload) < MinDBSize {
		return nil, fail(ErrKindTooSmall, fmt.Errorf("payload is %d bytes, below minimum %d", len(payload), MinDBSize))
	}

	// 阶段4: 挂载为可查询数据库
	record("mount", "")
	conn, err := m.mount(nodeURL, attemptID, payload)
	if err != nil {
		return nil, fail(ErrKindMount, err)
	}

	// 阶段5: 校验数据集结构
	record("schema_verify", "walking_maps")
	if err := verifySchema(conn.DB); err != nil {
		conn.Close()
		return nil, fail(ErrKindSchema, err)
	}
	record("bound", "")

	log.Printf("节点绑定成功: %s (attempt %s)", nodeURL, attemptID)
	return conn, nil
}

// fetchPayload 下载数据文件字节
func (m *ConnectionManager) fetchPayload(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	// 节点文件可能被换新，过期副本是正确性问题而不是性能问题
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s failed: %w", url, err)
	}
	return data, nil
}

// mount 将字节写入本地文件并以只读方式打开
func (m *ConnectionManager) mount(nodeURL, attemptID string, payload []byte) (*Connection, error) {
	mountDir := filepath.Join(m.storageDir, "nodes")
	if err := os.MkdirAll(mountDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create mount dir failed: %w", err)
	}

	dbPath := filepath.Join(mountDir, attemptID+".db")
	if err := os.WriteFile(dbPath, payload, 0644); err != nil {
		return nil, fmt.Errorf("write mount file failed: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=ro", dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		os.Remove(dbPath)
		return nil, fmt.Errorf("open database failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		os.Remove(dbPath)
		return nil, fmt.Errorf("get raw handle failed: %w", err)
	}

	// 立即读取一次，确认文件确实是SQLite数据库
	var count int64
	if err := db.Raw("SELECT count(*) FROM sqlite_master").Scan(&count).Error; err != nil {
		sqlDB.Close()
		os.Remove(dbPath)
		return nil, fmt.Errorf("mounted file is not a database: %w", err)
	}

	return &Connection{
		NodeURL: nodeURL,
		DB:      db,
		sqlDB:   sqlDB,
		dbPath:  dbPath,
	}, nil
}

// verifySchema 对主表做存在性探测
func verifySchema(db *gorm.DB) error {
	var count int64
	if err := db.Raw("SELECT count(*) FROM walking_maps").Scan(&count).Error; err != nil {
		return fmt.Errorf("walking_maps table probe failed: %w", err)
	}
	return nil
}
