package services

import (
	"fmt"
	"strings"
)

// ReportService 上下文报告生成
// 把地图元信息与要素列表拼为纯文本，供粘贴到外部工具使用，格式不做版本化
type ReportService struct {
	walkgis *WalkGISService
}

// NewReportService 创建报告服务
func NewReportService(walkgis *WalkGISService) *ReportService {
	return &ReportService{walkgis: walkgis}
}

// BuildContextReport 生成单个地图的上下文报告
func (s *ReportService) BuildContextReport(nodeURL string, mapID string) (string, error) {
	walkMap, err := s.walkgis.GetMap(nodeURL, mapID)
	if err != nil {
		return "", err
	}
	features, err := s.walkgis.ListFeaturesForMap(nodeURL, mapID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n", walkMap.Name))
	sb.WriteString(fmt.Sprintf("MapID: %s\n", walkMap.MapID))
	if walkMap.Region != "" {
		sb.WriteString(fmt.Sprintf("Region: %s\n", walkMap.Region))
	}
	if walkMap.Description != "" {
		sb.WriteString("\n" + walkMap.Description + "\n")
	}

	sb.WriteString(fmt.Sprintf("\n## Features (%d)\n", len(features)))
	for i, f := range features {
		sb.WriteString(fmt.Sprintf("%d. %s [%s]", i+1, f.Name, f.FeatureID))
		if f.GeometryWKT != "" {
			sb.WriteString(" " + f.GeometryWKT)
		}
		sb.WriteString("\n")
		if f.Description != "" {
			sb.WriteString("   " + strings.ReplaceAll(f.Description, "\n", " ") + "\n")
		}
	}

	return sb.String(), nil
}
