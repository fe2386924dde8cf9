package services

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/wuulong/WalkGISApp/methods"
	"github.com/wuulong/WalkGISApp/models"
)

// SourceStateKind 活动数据源的状态机状态
type SourceStateKind string

const (
	StateIdle      SourceStateKind = "idle"
	StateSwitching SourceStateKind = "switching"
	StateBound     SourceStateKind = "bound"
	StateError     SourceStateKind = "error"
)

// SourceStateManager 进程级活动数据源状态
// 同一时刻最多绑定一个节点，切换协议保证不会出现半切换状态下的查询
type SourceStateManager struct {
	mu        sync.RWMutex
	state     SourceStateKind
	nodeURL   string
	lastError string
	reloading atomic.Bool
	listeners []func(nodeURL string)
}

var (
	sourceState     *SourceStateManager
	sourceStateOnce sync.Once
)

// InitSourceState 初始化活动数据源状态（在程序启动时调用）
// 优先使用持久化的节点地址，没有则落到内置缺省节点
func InitSourceState(defaultNode string) *SourceStateManager {
	sourceStateOnce.Do(func() {
		nodeURL := models.GetStateValue(models.ActiveNodeKey)
		if nodeURL == "" {
			nodeURL = methods.NormalizeNodeURL(defaultNode)
		}
		sourceState = &SourceStateManager{
			state:   StateIdle,
			nodeURL: nodeURL,
		}
		log.Printf("活动节点: %s", nodeURL)
	})
	return sourceState
}

// GetSourceState 获取单例状态管理器
func GetSourceState() *SourceStateManager {
	return sourceState
}

// ActiveNode 当前活动节点地址
func (s *SourceStateManager) ActiveNode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodeURL
}

// State 当前状态
func (s *SourceStateManager) State() SourceStateKind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsSwitching 是否正在切换
func (s *SourceStateManager) IsSwitching() bool {
	return s.State() == StateSwitching
}

// Reloading 进程级重载标志
// 在途操作上报错误前应检查该标志，切换引发的失败需要静默丢弃
func (s *SourceStateManager) Reloading() bool {
	return s.reloading.Load()
}

// SuppressError 判断错误是否因切换中的拆除产生、应被丢弃
func (s *SourceStateManager) SuppressError(err error) bool {
	return err != nil && s.reloading.Load()
}

// OnReload 注册切换完成后的重载通知
func (s *SourceStateManager) OnReload(fn func(nodeURL string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SwitchNode 切换活动节点
// 顺序是协议的一部分：先置重载标志再持久化再拆除，
// 保证在途操作看到标志后不会把拆除引发的失败当成真实错误上报
func (s *SourceStateManager) SwitchNode(nodeURL string) error {
	addr := methods.NormalizeNodeURL(nodeURL)
	if addr == "" {
		return fmt.Errorf("empty node address")
	}

	s.reloading.Store(true)
	s.mu.Lock()
	s.state = StateSwitching
	s.mu.Unlock()

	defer func() {
		s.reloading.Store(false)
	}()

	if err := models.SaveStateValue(models.ActiveNodeKey, addr); err != nil {
		s.mu.Lock()
		s.state = StateError
		s.lastError = err.Error()
		s.mu.Unlock()
		return fmt.Errorf("persist active node failed: %w", err)
	}

	// 丢弃旧连接，下一次查询对新节点做完整绑定
	if manager := GetConnectionManager(); manager != nil {
		manager.Drop()
	}

	s.mu.Lock()
	s.nodeURL = addr
	s.state = StateIdle
	s.lastError = ""
	listeners := make([]func(string), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	// 通知已连接的客户端整页重载，旧节点的页面状态全部作废
	for _, fn := range listeners {
		fn(addr)
	}

	log.Printf("节点切换完成: %s", addr)
	return nil
}

// MarkBound 查询成功后标记为已绑定
func (s *SourceStateManager) MarkBound() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSwitching {
		s.state = StateBound
	}
}

// MarkError 绑定失败后记录错误状态
func (s *SourceStateManager) MarkError(err error) {
	if s.reloading.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateError
	if err != nil {
		s.lastError = err.Error()
	}
}

// LastError 最近一次绑定失败信息
func (s *SourceStateManager) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}
