package models

import "gorm.io/datatypes"

// WalkingMap 步道地图，来自节点数据集的walking_maps表，客户端只读
type WalkingMap struct {
	MapID       string         `gorm:"column:map_id;primaryKey" json:"mapId"`
	Name        string         `gorm:"column:name" json:"name"`
	Description string         `gorm:"column:description" json:"description"`
	CoverImage  string         `gorm:"column:cover_image" json:"coverImage"`
	Region      string         `gorm:"column:region" json:"region"`
	MetaData    datatypes.JSON `gorm:"column:meta_data" json:"metaData"`
	CreatedAt   string         `gorm:"column:created_at" json:"createdAt"`
}

func (WalkingMap) TableName() string {
	return "walking_maps"
}

// WalkingFeature 步道点位要素，geometry_wkt为WKT编码的POINT
type WalkingFeature struct {
	ID           int64          `gorm:"column:id;primaryKey" json:"id"`
	FeatureID    string         `gorm:"column:feature_id;index" json:"featureId"`
	Name         string         `gorm:"column:name" json:"name"`
	Description  string         `gorm:"column:description" json:"description"`
	LayerID      string         `gorm:"column:layer_id" json:"layerId"`
	GeometryType string         `gorm:"column:geometry_type" json:"geometryType"`
	GeometryWKT  string         `gorm:"column:geometry_wkt" json:"geometryWkt"`
	MetaData     datatypes.JSON `gorm:"column:meta_data" json:"metaData"`
	CreatedAt    string         `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    string         `gorm:"column:updated_at" json:"updatedAt"`
}

func (WalkingFeature) TableName() string {
	return "walking_map_features"
}

// MapRelation 地图与要素的多对多关联，display_order控制显示顺序
type MapRelation struct {
	MapID        string `gorm:"column:map_id;index" json:"mapId"`
	FeatureID    string `gorm:"column:feature_id;index" json:"featureId"`
	DisplayOrder int    `gorm:"column:display_order" json:"displayOrder"`
}

func (MapRelation) TableName() string {
	return "walking_map_relations"
}

// Source 数据源注册表中的节点描述
type Source struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CoverImage  string   `json:"cover_image"`
}

// SourceRegistry 注册表文档
type SourceRegistry struct {
	Sources []Source `json:"sources"`
}
