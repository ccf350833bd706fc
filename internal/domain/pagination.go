package domain

// Pagination describes one window over an ordered collection, in the shape
// the listing endpoints return alongside their rows.
type Pagination struct {
	Page        int  `json:"page"`
	PerPage     int  `json:"per_page"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// Paginate computes the window for page/perPage over totalCount items.
// A page past the end yields an empty window with HasNext false; an empty
// collection yields zero total pages.
func Paginate(totalCount, page, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (totalCount + perPage - 1) / perPage

	return Pagination{
		Page:        page,
		PerPage:     perPage,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
}

// Offset is the number of rows the window query skips.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}
