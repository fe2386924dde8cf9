package methods

import (
	"path"
	"strings"
)

// NormalizeNodeURL 规范化节点地址，保证以/结尾
func NormalizeNodeURL(nodeURL string) string {
	nodeURL = strings.TrimSpace(nodeURL)
	if nodeURL == "" {
		return ""
	}
	if !strings.HasSuffix(nodeURL, "/") {
		nodeURL = nodeURL + "/"
	}
	return nodeURL
}

func isAbsoluteURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

// ResolveImagePath 计算图片的可访问地址
// 绝对地址原样返回，相对路径去掉目录部分后挂到节点的assets/images下
func ResolveImagePath(nodeURL string, rawPath string) string {
	if rawPath == "" {
		return ""
	}
	if isAbsoluteURL(rawPath) {
		return rawPath
	}
	filename := path.Base(strings.ReplaceAll(rawPath, "\\", "/"))
	if filename == "." || filename == "/" || filename == ".." {
		return ""
	}
	return NormalizeNodeURL(nodeURL) + "assets/images/" + filename
}

// ContentBaseURL 要素长文内容目录
func ContentBaseURL(nodeURL string) string {
	return NormalizeNodeURL(nodeURL) + "features/"
}

// MapsBaseURL 地图长文内容目录
func MapsBaseURL(nodeURL string) string {
	return NormalizeNodeURL(nodeURL) + "maps/"
}
