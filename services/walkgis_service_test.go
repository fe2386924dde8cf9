package services

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*WalkGISService, string, *int32) {
	t.Helper()
	srv, fetches := newNodeServer(t, buildDatasetBytes(t))
	m := newTestManager(t)
	return NewWalkGISService(m), srv.URL, fetches
}

func TestListMapsNewestFirst(t *testing.T) {
	svc, node, _ := newTestService(t)

	maps := svc.ListMaps(node)
	require.Len(t, maps, 2)
	assert.Equal(t, "m-trail-south", maps[0].MapID, "创建时间新的排前面")
	assert.Equal(t, "m-trail-north", maps[1].MapID)
	assert.Equal(t, "Taipei", maps[1].Region)
	assert.JSONEq(t, `{"length_km":4.2}`, string(maps[1].MetaData))
}

// 顶层列表失败降级为空，不向调用方抛错
func TestListMapsDegradesOnFailure(t *testing.T) {
	srv, _ := newNodeServer(t, make([]byte, 10))
	m := newTestManager(t)
	svc := NewWalkGISService(m)

	maps := svc.ListMaps(srv.URL)
	assert.NotNil(t, maps)
	assert.Empty(t, maps)
}

func TestListFeaturesForMapOrdering(t *testing.T) {
	svc, node, _ := newTestService(t)

	features, err := svc.ListFeaturesForMap(node, "m-trail-north")
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "old-bridge", features[0].FeatureID, "按display_order升序")
	assert.Equal(t, "spring-head", features[1].FeatureID)
}

func TestListFeaturesForMapFilters(t *testing.T) {
	svc, node, _ := newTestService(t)

	features, err := svc.ListFeaturesForMap(node, "m-trail-south")
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "spring-head", features[0].FeatureID)

	none, err := svc.ListFeaturesForMap(node, "no-such-map")
	require.NoError(t, err)
	assert.Empty(t, none)
}

// 详情页读取失败必须向上抛出，与顶层列表的降级策略不同
func TestListFeaturesForMapPropagatesError(t *testing.T) {
	srv, _ := newNodeServer(t, make([]byte, 10))
	m := newTestManager(t)
	svc := NewWalkGISService(m)

	_, err := svc.ListFeaturesForMap(srv.URL, "m-trail-north")
	require.Error(t, err)
	assert.Equal(t, ErrKindTooSmall, BindErrKind(err))
}

func TestListAllFeatures(t *testing.T) {
	svc, node, _ := newTestService(t)

	features, err := svc.ListAllFeatures(node)
	require.NoError(t, err)
	assert.Len(t, features, 3)
}

func TestSearchMinTermLength(t *testing.T) {
	svc, node, fetches := newTestService(t)

	// 不足两个字符：直接空结果，连绑定都不触发
	assert.Empty(t, svc.SearchFeaturesByName(node, ""))
	assert.Empty(t, svc.SearchFeaturesByName(node, "a"))
	assert.Equal(t, int32(0), atomic.LoadInt32(fetches))

	results := svc.SearchFeaturesByName(node, "spring")
	assert.Len(t, results, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(fetches))
}

func TestSearchCaseInsensitive(t *testing.T) {
	svc, node, _ := newTestService(t)

	results := svc.SearchFeaturesByName(node, "SPRING")
	require.Len(t, results, 1)
	assert.Equal(t, "Spring Head", results[0].Name)
}

// 随输入搜索不允许冒错误，失败一律降级为空
func TestSearchSwallowsErrors(t *testing.T) {
	srv, _ := newNodeServer(t, make([]byte, 10))
	m := newTestManager(t)
	svc := NewWalkGISService(m)

	results := svc.SearchFeaturesByName(srv.URL, "spring")
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestGetMap(t *testing.T) {
	svc, node, _ := newTestService(t)

	m, err := svc.GetMap(node, "m-trail-north")
	require.NoError(t, err)
	assert.Equal(t, "North Ridge Trail", m.Name)

	_, err = svc.GetMap(node, "no-such-map")
	require.Error(t, err)
}

func TestBuildContextReport(t *testing.T) {
	svc, node, _ := newTestService(t)
	report := NewReportService(svc)

	text, err := report.BuildContextReport(node, "m-trail-north")
	require.NoError(t, err)
	assert.Contains(t, text, "# North Ridge Trail")
	assert.Contains(t, text, "1. Old Stone Bridge [old-bridge] POINT(121.54 25.11)")
	assert.Contains(t, text, "2. Spring Head [spring-head]")
}
