package repos

import "blog/models"

// PostPage is one bounded slice of a listing, plus the metadata the
// templates need to render pagination controls.
type PostPage struct {
	Items      []models.Post
	Number     int
	Size       int
	TotalItems int64
	TotalPages int
}

func (p *PostPage) HasPrev() bool {
	return p.Number > 1
}

func (p *PostPage) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p *PostPage) PrevNumber() int {
	return p.Number - 1
}

func (p *PostPage) NextNumber() int {
	return p.Number + 1
}
