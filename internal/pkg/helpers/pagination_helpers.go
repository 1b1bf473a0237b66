package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tam/internal/app/models/dto"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePageSize clamps a requested page size into [1, MaxPageSize]
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// ParseCursorParams extracts the keyset cursor from the request.
// The last row id is read from lastId, or lastDocId for older console builds.
func ParseCursorParams(c *gin.Context) (lastID int64, pageSize int) {
	raw := c.Query("lastId")
	if raw == "" {
		raw = c.Query("lastDocId")
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
		lastID = id
	}

	size, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(DefaultPageSize)))
	if err != nil {
		size = DefaultPageSize
	}

	return lastID, NormalizePageSize(size)
}

// NewCursorInfo builds the pagination block of a list response from the page actually returned
func NewCursorInfo[T any](items []T, pageSize int, hasNext bool, idOf func(T) int64) dto.CursorInfo {
	info := dto.CursorInfo{PageSize: pageSize, HasNext: hasNext}
	if len(items) > 0 {
		last := idOf(items[len(items)-1])
		info.LastID = &last
	}
	return info
}
