package payload

// Pagination defaults for project listing. Pages are 1-indexed.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ListReqQuery carries optional paging parameters. Pointer fields distinguish
// "absent" from zero so the defaults only apply when a value is missing.
type ListReqQuery struct {
	Page  *int `form:"page" binding:"omitempty,min=1"`
	Limit *int `form:"limit" binding:"omitempty,min=1"`
}

// Normalize resolves the effective page and limit.
func (q *ListReqQuery) Normalize() (page, limit int) {
	page, limit = DefaultPage, DefaultLimit
	if q.Page != nil {
		page = *q.Page
	}
	if q.Limit != nil {
		limit = *q.Limit
	}
	return page, limit
}
