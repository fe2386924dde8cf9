package services

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wuulong/WalkGISApp/methods"
)

// ContentProxyService 节点附属内容代理
// 长文与图片是数据库旁的散文件，经本地代理统一出口并做短期缓存
type ContentProxyService struct {
	httpClient *http.Client
	cache      *ContentCache
}

// NewContentProxyService 创建内容代理
func NewContentProxyService() *ContentProxyService {
	return &ContentProxyService{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		cache: NewContentCache(500, 10*time.Minute),
	}
}

// FetchFeatureDoc 获取要素的长文描述
func (s *ContentProxyService) FetchFeatureDoc(nodeURL string, featureID string) ([]byte, string, error) {
	url := methods.ContentBaseURL(nodeURL) + featureID + ".md"
	return s.fetch(url, "text/markdown; charset=utf-8")
}

// FetchMapDoc 获取地图的长文描述
func (s *ContentProxyService) FetchMapDoc(nodeURL string, mapID string) ([]byte, string, error) {
	url := methods.MapsBaseURL(nodeURL) + mapID + ".md"
	return s.fetch(url, "text/markdown; charset=utf-8")
}

// FetchImage 获取图片
func (s *ContentProxyService) FetchImage(nodeURL string, rawPath string) ([]byte, string, error) {
	url := methods.ResolveImagePath(nodeURL, rawPath)
	if url == "" {
		return nil, "", fmt.Errorf("empty image path")
	}
	return s.fetch(url, "")
}

// fetch 拉取单个内容文件，命中缓存直接返回
func (s *ContentProxyService) fetch(url string, fallbackType string) ([]byte, string, error) {
	if item, ok := s.cache.Get(url); ok {
		return item.Data, item.ContentType, nil
	}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request failed: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch content failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("content server returned status %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read content failed: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		if fallbackType != "" {
			contentType = fallbackType
		} else {
			contentType = http.DetectContentType(data)
		}
	}

	s.cache.Set(url, data, contentType)
	return data, contentType, nil
}
