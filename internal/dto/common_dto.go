package dto

// Pagination is the offset/limit scheme shared by every list endpoint.
type Pagination struct {
	Offset int `form:"offset" binding:"omitempty,min=0"`
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Normalize applies the default page size.
func (p *Pagination) Normalize() {
	if p.Limit == 0 {
		p.Limit = 10
	}
}

type PaginationMeta struct {
	Offset     int   `json:"offset"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
}
