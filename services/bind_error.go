package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrKind 绑定失败类别，用于区分修复方向（网络、文件、数据集内容）
type ErrKind string

const (
	ErrKindEngine   ErrKind = "engine"    // 引擎获取失败
	ErrKindFetch    ErrKind = "fetch"     // 数据文件下载失败
	ErrKindTooSmall ErrKind = "too_small" // 文件过小，疑似错误页
	ErrKindMount    ErrKind = "mount"     // 文件无法作为数据库挂载
	ErrKindSchema   ErrKind = "schema"    // 挂载成功但不是WalkGIS数据集
)

// PhaseEvent 绑定过程中的阶段记录
type PhaseEvent struct {
	Phase  string    `json:"phase"`
	Detail string    `json:"detail"`
	At     time.Time `json:"at"`
}

// BindError 携带完整阶段日志的绑定失败
type BindError struct {
	Kind      ErrKind
	NodeURL   string
	AttemptID string
	Phases    []PhaseEvent
	Err       error
}

func (e *BindError) Error() string {
	var phases []string
	for _, p := range e.Phases {
		if p.Detail != "" {
			phases = append(phases, p.Phase+"("+p.Detail+")")
		} else {
			phases = append(phases, p.Phase)
		}
	}
	return fmt.Sprintf("bind %s failed [%s] attempt=%s phases=%s: %v",
		e.NodeURL, e.Kind, e.AttemptID, strings.Join(phases, " -> "), e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// BindErrKind 提取错误的绑定类别，非绑定错误返回空
func BindErrKind(err error) ErrKind {
	var be *BindError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
