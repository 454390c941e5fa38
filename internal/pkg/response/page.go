package response

// PageResponse is the envelope every paginated list endpoint returns.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPageResponse wraps a page of items with its pagination metadata.
func NewPageResponse[T any](items []T, page, pageSize, total int) PageResponse[T] {
	// An empty page must serialize as [], not null.
	if items == nil {
		items = make([]T, 0)
	}

	return PageResponse[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
}
