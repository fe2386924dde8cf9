package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wuulong/WalkGISApp/config"
	"github.com/wuulong/WalkGISApp/methods"
)

// ValidateTimeout 节点探测的时间上限
const ValidateTimeout = 8 * time.Second

// ValidatorService 节点有效性探测
type ValidatorService struct {
	httpClient *http.Client
	timeout    time.Duration
	dbFileName string
}

// NewValidatorService 创建探测器
func NewValidatorService(timeout time.Duration) *ValidatorService {
	return &ValidatorService{
		httpClient: &http.Client{},
		timeout:    timeout,
		dbFileName: config.DBFileName,
	}
}

// Validate 确认节点上的数据文件可达
// 超时视为可达：静态托管上慢而存在的文件不应被判定为无效
// 收到成功状态后立即丢弃响应体，目标只是确认可达性，不是下载两次
func (s *ValidatorService) Validate(nodeURL string) bool {
	addr := methods.NormalizeNodeURL(nodeURL)
	if addr == "" {
		return false
	}
	probeURL := fmt.Sprintf("%s%s?t=%d", addr, s.dbFileName, time.Now().UnixMilli())

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	// 完整GET而非Range请求，Range在部分静态托管上不可靠
	req, err := http.NewRequestWithContext(ctx, "GET", probeURL, nil)
	if err != nil {
		return false
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return true
		}
		return false
	}
	resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
