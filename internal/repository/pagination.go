package repository

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Page is a page-number pagination request.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page number and size to usable values.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Size
}
