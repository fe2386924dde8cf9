package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "walkgis.db")
		assert.NotEmpty(t, r.URL.Query().Get("t"), "探测请求必须带防缓存参数")
		w.Write([]byte("SQLite format 3"))
	}))
	t.Cleanup(srv.Close)

	v := NewValidatorService(2 * time.Second)
	assert.True(t, v.Validate(srv.URL))
}

func TestValidateNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	v := NewValidatorService(2 * time.Second)
	assert.False(t, v.Validate(srv.URL))
}

// 超时视为可达：慢但存在的文件不应被判定为无效
func TestValidateTimeoutIsLenient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	v := NewValidatorService(200 * time.Millisecond)
	start := time.Now()
	assert.True(t, v.Validate(srv.URL))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestValidateUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // 立即关闭，拒绝连接不是超时，应判定失败

	v := NewValidatorService(2 * time.Second)
	assert.False(t, v.Validate(srv.URL))
}

func TestValidateEmptyAddress(t *testing.T) {
	v := NewValidatorService(time.Second)
	assert.False(t, v.Validate(""))
}
