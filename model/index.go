package model

// TokenClaim is the identity carried inside access tokens.
type TokenClaim struct {
	UserId uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// PageMeta mirrors the pagination block of list responses.
type PageMeta struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	Pages       int64 `json:"pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NewPageMeta fills the standard pagination block.
func NewPageMeta(page, limit int, total int64) PageMeta {
	return PageMeta{
		Page:        page,
		Limit:       limit,
		Total:       total,
		Pages:       (total + int64(limit) - 1) / int64(limit),
		HasNext:     int64(page*limit) < total,
		HasPrevious: page > 1,
	}
}
