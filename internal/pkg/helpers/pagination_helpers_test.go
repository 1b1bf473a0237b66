package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNormalizePageSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultPageSize},
		{-5, DefaultPageSize},
		{1, 1},
		{50, 50},
		{100, 100},
		{101, MaxPageSize},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePageSize(tt.in), "size %d", tt.in)
	}
}

func TestParseCursorParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantID   int64
		wantSize int
	}{
		{"defaults", "", 0, DefaultPageSize},
		{"lastId and size", "?lastId=15&pageSize=5", 15, 5},
		{"legacy lastDocId", "?lastDocId=9", 9, DefaultPageSize},
		{"lastId wins over lastDocId", "?lastId=3&lastDocId=9", 3, DefaultPageSize},
		{"garbage ignored", "?lastId=abc&pageSize=xyz", 0, DefaultPageSize},
		{"size clamped", "?pageSize=1000", 0, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/items"+tt.query, nil)

			id, size := ParseCursorParams(c)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}

func TestNewCursorInfo(t *testing.T) {
	type row struct{ id int64 }
	idOf := func(r row) int64 { return r.id }

	info := NewCursorInfo([]row{{5}, {77}}, 2, true, idOf)
	assert.True(t, info.HasNext)
	assert.Equal(t, 2, info.PageSize)
	if assert.NotNil(t, info.LastID) {
		assert.Equal(t, int64(77), *info.LastID)
	}

	empty := NewCursorInfo([]row{}, 20, false, idOf)
	assert.False(t, empty.HasNext)
	assert.Nil(t, empty.LastID)
}
