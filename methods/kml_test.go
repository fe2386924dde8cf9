package methods

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wuulong/WalkGISApp/models"
)

func TestGenerateKMLPointOnly(t *testing.T) {
	features := []models.WalkingFeature{
		{Name: "A", GeometryWKT: "POINT(121.5 25.0)"},
		{Name: "B", GeometryWKT: "LINESTRING(121.5 25.0, 121.6 25.1)"},
	}

	kml := GenerateKML(features)

	// 非POINT几何静默跳过
	assert.Equal(t, 1, strings.Count(kml, "<Placemark>"))
	assert.Contains(t, kml, "<name>A</name>")
	assert.NotContains(t, kml, "<name>B</name>")
	assert.Contains(t, kml, "<coordinates>121.5,25,0</coordinates>")
	assert.Contains(t, kml, `xmlns="http://www.opengis.net/kml/2.2"`)
}

func TestGenerateKMLSkipsBadGeometry(t *testing.T) {
	features := []models.WalkingFeature{
		{Name: "broken", GeometryWKT: "not wkt at all"},
		{Name: "empty", GeometryWKT: ""},
	}

	kml := GenerateKML(features)
	assert.NotContains(t, kml, "<Placemark>")
	assert.Contains(t, kml, "<Document>")
}

func TestGenerateKMLEscapesText(t *testing.T) {
	features := []models.WalkingFeature{
		{Name: "Rock & Spring <east>", Description: "cliff > 5m", GeometryWKT: "POINT(121.53 25.10)"},
	}

	kml := GenerateKML(features)
	assert.Contains(t, kml, "Rock &amp; Spring &lt;east&gt;")
	assert.Contains(t, kml, "cliff &gt; 5m")
}
