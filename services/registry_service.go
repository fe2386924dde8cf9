package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/wuulong/WalkGISApp/models"
)

// RegistryService 数据源注册表客户端
type RegistryService struct {
	httpClient  *http.Client
	registryURL string
}

// NewRegistryService 创建注册表客户端
func NewRegistryService(registryURL string) *RegistryService {
	return &RegistryService{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		registryURL: registryURL,
	}
}

// FetchNodeRegistry 拉取已知节点列表
// 任何失败都返回空列表，注册表不可用只能降级为无推荐节点，不能让调用方崩溃
func (s *RegistryService) FetchNodeRegistry() []models.Source {
	url := fmt.Sprintf("%s?t=%d", s.registryURL, time.Now().UnixMilli())
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return []models.Source{}
	}
	// 绕过中间缓存，注册表更新无需重新部署即可见
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("注册表拉取失败: %v", err)
		return []models.Source{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("注册表返回状态 %d", resp.StatusCode)
		return []models.Source{}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return []models.Source{}
	}

	var registry models.SourceRegistry
	if err := json.Unmarshal(data, &registry); err != nil {
		log.Printf("注册表解析失败: %v", err)
		return []models.Source{}
	}
	if registry.Sources == nil {
		return []models.Source{}
	}
	return registry.Sources
}
