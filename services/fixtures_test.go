package services

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildSQLiteBytes 在临时目录构建sqlite文件并返回字节
func buildSQLiteBytes(t *testing.T, stmts []string) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	for _, s := range stmts {
		require.NoError(t, db.Exec(s).Error)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

// buildDatasetBytes 构建标准的WalkGIS数据集
func buildDatasetBytes(t *testing.T) []byte {
	return buildSQLiteBytes(t, []string{
		`CREATE TABLE walking_maps (
			map_id TEXT PRIMARY KEY, name TEXT, description TEXT,
			cover_image TEXT, region TEXT, meta_data TEXT, created_at TEXT)`,
		`CREATE TABLE walking_map_features (
			id INTEGER PRIMARY KEY, feature_id TEXT, name TEXT, description TEXT,
			layer_id TEXT, geometry_type TEXT, geometry_wkt TEXT,
			meta_data TEXT, created_at TEXT, updated_at TEXT)`,
		`CREATE TABLE walking_map_relations (
			map_id TEXT, feature_id TEXT, display_order INTEGER)`,
		`INSERT INTO walking_maps VALUES
			('m-trail-north', 'North Ridge Trail', 'Ridge walk above the creek', 'north.png', 'Taipei', '{"length_km":4.2}', '2024-03-01 10:00:00'),
			('m-trail-south', 'South Creek Trail', NULL, NULL, 'Taipei', NULL, '2024-05-10 09:30:00')`,
		`INSERT INTO walking_map_features VALUES
			(1, 'spring-head', 'Spring Head', 'Water source of the old canal', 'water', 'Point', 'POINT(121.53 25.10)', NULL, '2024-03-01 10:00:00', NULL),
			(2, 'old-bridge', 'Old Stone Bridge', NULL, 'heritage', 'Point', 'POINT(121.54 25.11)', NULL, '2024-03-01 10:00:00', NULL),
			(3, 'ridge-line', 'Ridge Line', NULL, 'route', 'LineString', 'LINESTRING(121.53 25.10, 121.54 25.11)', NULL, '2024-03-01 10:00:00', NULL)`,
		`INSERT INTO walking_map_relations VALUES
			('m-trail-north', 'old-bridge', 1),
			('m-trail-north', 'spring-head', 2),
			('m-trail-south', 'spring-head', 1)`,
	})
}

// newNodeServer 模拟节点静态托管，对walkgis.db的请求计数
func newNodeServer(t *testing.T, payload []byte) (*httptest.Server, *int32) {
	t.Helper()

	var fetches int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/walkgis.db") {
			atomic.AddInt32(&fetches, 1)
			w.Write(payload)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &fetches
}

// newTestManager 非单例的连接管理器，避免测试间串扰
func newTestManager(t *testing.T) *ConnectionManager {
	t.Helper()
	m := NewConnectionManager(t.TempDir())
	t.Cleanup(m.Drop)
	return m
}
