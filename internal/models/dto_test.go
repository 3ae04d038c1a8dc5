package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginatedResponse(t *testing.T) {
	tests := []struct {
		name       string
		data       []int
		total      int64
		page       int
		limit      int
		wantTotal  int64
		wantPages  int
		wantLength int
	}{
		{name: "empty", data: nil, total: 0, page: 1, limit: 10, wantTotal: 0, wantPages: 0, wantLength: 0},
		{name: "exact pages", data: []int{1, 2}, total: 20, page: 1, limit: 10, wantTotal: 20, wantPages: 2, wantLength: 2},
		{name: "partial last page", data: []int{1}, total: 21, page: 3, limit: 10, wantTotal: 21, wantPages: 3, wantLength: 1},
		{name: "total below page length is raised", data: []int{1, 2, 3}, total: 1, page: 1, limit: 10, wantTotal: 3, wantPages: 1, wantLength: 3},
		{name: "invalid limit", data: []int{1}, total: 1, page: 0, limit: 0, wantTotal: 1, wantPages: 1, wantLength: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewPaginatedResponse(tt.data, tt.total, tt.page, tt.limit)

			assert.Equal(t, tt.wantTotal, resp.Total)
			assert.Equal(t, tt.wantPages, resp.TotalPages)
			assert.Len(t, resp.Data, tt.wantLength)
			assert.NotNil(t, resp.Data)
			assert.GreaterOrEqual(t, resp.Total, int64(len(resp.Data)))
			assert.GreaterOrEqual(t, resp.Page, 1)
		})
	}
}

func TestTeacherStatsAdd(t *testing.T) {
	var stats TeacherStats
	stats.Add(StatusActive, 3, 300)
	stats.Add(StatusInvited, 2, 0)
	stats.Add(StatusSuspended, 1, 50)

	assert.Equal(t, int64(6), stats.Total)
	assert.Equal(t, int64(3), stats.Active)
	assert.Equal(t, int64(2), stats.Invited)
	assert.Equal(t, int64(1), stats.Suspended)
	assert.Equal(t, int64(0), stats.Inactive)
	assert.Equal(t, int64(350), stats.TotalStorageUsed)
}

func TestWorkAttachmentURLs(t *testing.T) {
	w := &Work{Attachments: []byte(`["https://files.example.com/a.pdf","https://files.example.com/b.png"]`)}
	assert.Equal(t, []string{"https://files.example.com/a.pdf", "https://files.example.com/b.png"}, w.AttachmentURLs())

	w.Attachments = []byte(`not json`)
	assert.Nil(t, w.AttachmentURLs())
}

func TestTeacherCanSignIn(t *testing.T) {
	for status, want := range map[TeacherStatus]bool{
		StatusActive:    true,
		StatusInvited:   true,
		StatusInactive:  false,
		StatusSuspended: false,
	} {
		assert.Equal(t, want, (&Teacher{Status: status}).CanSignIn(), status)
	}
}
