package services

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/wuulong/WalkGISApp/models"
	"gorm.io/datatypes"
)

// SearchLimit 名称搜索的结果上限
const SearchLimit = 10

// SearchMinTermLen 触发搜索的最短关键字长度，过短的输入不查询
const SearchMinTermLen = 2

const featureColumns = "f.id, f.feature_id, f.name, f.description, f.layer_id, f.geometry_type, f.geometry_wkt, f.meta_data, f.created_at, f.updated_at"

// WalkGISService 数据集查询门面
// 所有操作先通过连接管理器取得当前节点的绑定，再以预编译语句读取
type WalkGISService struct {
	manager *ConnectionManager
}

// NewWalkGISService 创建查询门面
func NewWalkGISService(manager *ConnectionManager) *WalkGISService {
	return &WalkGISService{manager: manager}
}

// ListMaps 列出全部地图，创建时间倒序
// 顶层列表失败降级为空列表，不向页面抛错
func (s *WalkGISService) ListMaps(nodeURL string) []models.WalkingMap {
	maps, err := s.listMaps(nodeURL)
	if err != nil {
		if state := GetSourceState(); state == nil || !state.SuppressError(err) {
			log.Printf("地图列表读取失败: %v", err)
		}
		return []models.WalkingMap{}
	}
	return maps
}

func (s *WalkGISService) listMaps(nodeURL string) ([]models.WalkingMap, error) {
	conn, err := s.manager.GetConnection(nodeURL)
	if err != nil {
		return nil, err
	}

	stmt, err := conn.Prepare(`SELECT map_id, name, description, cover_image, region, meta_data, created_at
		FROM walking_maps ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	maps := make([]models.WalkingMap, 0)
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

// GetMap 读取单个地图
func (s *WalkGISService) GetMap(nodeURL string, mapID string) (*models.WalkingMap, error) {
	conn, err := s.manager.GetConnection(nodeURL)
	if err != nil {
		return nil, err
	}

	stmt, err := conn.Prepare(`SELECT map_id, name, description, cover_image, region, meta_data, created_at
		FROM walking_maps WHERE map_id = ? LIMIT 1`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	rows, err := stmt.Query(mapID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("map not found: %s", mapID)
	}
	m, err := scanMap(rows)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListFeaturesForMap 列出地图关联的要素，按关联表的显示顺序排列
// 详情页失败必须向上抛出，与顶层列表的降级策略不同
func (s *WalkGISService) ListFeaturesForMap(nodeURL string, mapID string) ([]models.WalkingFeature, error) {
	conn, err := s.manager.GetConnection(nodeURL)
	if err != nil {
		return nil, err
	}

	stmt, err := conn.Prepare(`SELECT ` + featureColumns + `
		FROM walking_map_features f
		INNER JOIN walking_map_relations r ON r.feature_id = f.feature_id
		WHERE r.map_id = ?
		ORDER BY r.display_order ASC`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	rows, err := stmt.Query(mapID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFeatures(rows)
}

// ListAllFeatures 列出全部要素，供就近搜索使用
func (s *WalkGISService) ListAllFeatures(nodeURL string) ([]models.WalkingFeature, error) {
	conn, err := s.manager.GetConnection(nodeURL)
	if err != nil {
		return nil, err
	}

	stmt, err := conn.Prepare(`SELECT ` + featureColumns + ` FROM walking_map_features f`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFeatures(rows)
}

// SearchFeaturesByName 按名称子串搜索要素，大小写不敏感
// 不足两个字符直接返回空且不发起查询；随输入搜索不允许冒错误
func (s *WalkGISService) SearchFeaturesByName(nodeURL string, term string) []models.WalkingFeature {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < SearchMinTermLen {
		return []models.WalkingFeature{}
	}

	features, err := s.searchFeatures(nodeURL, term)
	if err != nil {
		if state := GetSourceState(); state == nil || !state.SuppressError(err) {
			log.Printf("要素搜索失败: %v", err)
		}
		return []models.WalkingFeature{}
	}
	return features
}

func (s *WalkGISService) searchFeatures(nodeURL string, term string) ([]models.WalkingFeature, error) {
	conn, err := s.manager.GetConnection(nodeURL)
	if err != nil {
		return nil, err
	}

	stmt, err := conn.Prepare(`SELECT ` + featureColumns + `
		FROM walking_map_features f
		WHERE LOWER(f.name) LIKE ?
		LIMIT ` + fmt.Sprintf("%d", SearchLimit))
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	rows, err := stmt.Query("%" + strings.ToLower(term) + "%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFeatures(rows)
}

func collectFeatures(rows *sql.Rows) ([]models.WalkingFeature, error) {
	features := make([]models.WalkingFeature, 0)
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

// scanFeature 将一行扫描为固定结构，可空列落为零值
func scanFeature(rows *sql.Rows) (models.WalkingFeature, error) {
	var f models.WalkingFeature
	var description, layerID, geometryType, geometryWKT, metaData, createdAt, updatedAt sql.NullString
	err := rows.Scan(&f.ID, &f.FeatureID, &f.Name, &description, &layerID,
		&geometryType, &geometryWKT, &metaData, &createdAt, &updatedAt)
	if err != nil {
		return f, fmt.Errorf("scan feature failed: %w", err)
	}
	f.Description = description.String
	f.LayerID = layerID.String
	f.GeometryType = geometryType.String
	f.GeometryWKT = geometryWKT.String
	if metaData.Valid {
		f.MetaData = datatypes.JSON(metaData.String)
	}
	f.CreatedAt = createdAt.String
	f.UpdatedAt = updatedAt.String
	return f, nil
}

func scanMap(rows *sql.Rows) (models.WalkingMap, error) {
	var m models.WalkingMap
	var description, coverImage, region, metaData, createdAt sql.NullString
	err := rows.Scan(&m.MapID, &m.Name, &description, &coverImage, &region, &metaData, &createdAt)
	if err != nil {
		return m, fmt.Errorf("scan map failed: %w", err)
	}
	m.Description = description.String
	m.CoverImage = coverImage.String
	m.Region = region.String
	if metaData.Valid {
		m.MetaData = datatypes.JSON(metaData.String)
	}
	m.CreatedAt = createdAt.String
	return m, nil
}
