package models

// ===== PAGINATION =====

// PaginatedResponse holds one page of records.
// Invariants: Total >= len(Data) and TotalPages == ceil(Total/Limit).
type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func NewPaginatedResponse[T any](data []T, total int64, page, limit int) *PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	if total < int64(len(data)) {
		total = int64(len(data))
	}
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}

	return &PaginatedResponse[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}
}

func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func (p *PaginatedResponse[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

func (p *PaginatedResponse[T]) HasPrev() bool {
	return p.Page > 1
}

// ===== STATISTICS =====

type TeacherStats struct {
	Total            int64 `json:"total"`
	Active           int64 `json:"active"`
	Inactive         int64 `json:"inactive"`
	Suspended        int64 `json:"suspended"`
	Invited          int64 `json:"invited"`
	TotalStorageUsed int64 `json:"total_storage_used"`
}

// Add folds a per-status row into the stats.
func (s *TeacherStats) Add(status TeacherStatus, count, storage int64) {
	switch status {
	case StatusActive:
		s.Active += count
	case StatusInactive:
		s.Inactive += count
	case StatusSuspended:
		s.Suspended += count
	case StatusInvited:
		s.Invited += count
	}
	s.Total += count
	s.TotalStorageUsed += storage
}
