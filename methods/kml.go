package methods

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/wuulong/WalkGISApp/models"
)

func escapeXML(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

// GenerateKML 将POINT要素序列化为KML文档，非POINT几何直接跳过
func GenerateKML(features []models.WalkingFeature) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<kml xmlns="http://www.opengis.net/kml/2.2">` + "\n")
	sb.WriteString("  <Document>\n")

	for _, feature := range features {
		geom, err := wkt.Unmarshal(strings.TrimSpace(feature.GeometryWKT))
		if err != nil {
			continue
		}
		point, ok := geom.(orb.Point)
		if !ok {
			continue
		}

		sb.WriteString("    <Placemark>\n")
		sb.WriteString(fmt.Sprintf("      <name>%s</name>\n", escapeXML(feature.Name)))
		if feature.Description != "" {
			sb.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(feature.Description)))
		}
		sb.WriteString("      <Point>\n")
		sb.WriteString(fmt.Sprintf("        <coordinates>%v,%v,0</coordinates>\n", point.Lon(), point.Lat()))
		sb.WriteString("      </Point>\n")
		sb.WriteString("    </Placemark>\n")
	}

	sb.WriteString("  </Document>\n")
	sb.WriteString("</kml>\n")
	return sb.String()
}
