package dto

type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GenreFilter struct {
	Search string `form:"search"`
	Pagination
}

type PaginatedGenreResponse struct {
	Data []GenreResponse `json:"data"`
	Meta PaginationMeta  `json:"meta"`
}
