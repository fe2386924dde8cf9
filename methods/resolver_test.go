package methods

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNodeURL(t *testing.T) {
	assert.Equal(t, "https://h/n/", NormalizeNodeURL("https://h/n"))
	assert.Equal(t, "https://h/n/", NormalizeNodeURL("https://h/n/"))
	assert.Equal(t, "https://h/n/", NormalizeNodeURL("  https://h/n "))
	assert.Equal(t, "", NormalizeNodeURL(""))
}

func TestResolveImagePath(t *testing.T) {
	// 相对路径去掉目录部分后重新挂到assets/images下
	assert.Equal(t, "https://h/n/assets/images/a.png", ResolveImagePath("https://h/n/", "../assets/images/a.png"))
	assert.Equal(t, "https://h/n/assets/images/a.png", ResolveImagePath("https://h/n/", "a.png"))
	assert.Equal(t, "https://h/n/assets/images/a.png", ResolveImagePath("https://h/n", "dir/sub/a.png"))

	// 绝对地址原样返回
	assert.Equal(t, "https://other/x.png", ResolveImagePath("https://h/n/", "https://other/x.png"))

	// 空输入
	assert.Equal(t, "", ResolveImagePath("https://h/n/", ""))
}

func TestContentBaseURLs(t *testing.T) {
	assert.Equal(t, "https://h/n/features/", ContentBaseURL("https://h/n"))
	assert.Equal(t, "https://h/n/maps/", MapsBaseURL("https://h/n/"))
}
