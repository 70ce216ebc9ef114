package publishing

import "github.com/ManuelReschke/PixelPress/app/models"

// Page is one page of a post listing.
type Page struct {
	Posts   []models.Post
	Total   int64
	Number  int
	PerPage int
}

// Pages returns the number of pages needed for Total posts
func (p Page) Pages() int {
	if p.PerPage <= 0 {
		return 0
	}
	n := int(p.Total) / p.PerPage
	if int(p.Total)%p.PerPage > 0 {
		n++
	}
	return n
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.Pages() }
func (p Page) PrevNum() int  { return p.Number - 1 }
func (p Page) NextNum() int  { return p.Number + 1 }
