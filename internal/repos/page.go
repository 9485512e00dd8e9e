package repos

// Page describes one slice of a paginated listing.
type Page struct {
	Number     int
	Size       int
	Total      int
	TotalPages int
}

// TotalPages is ceil(total/size), and 1 for an empty result so templates
// never render "page 1 of 0".
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// NewPage clamps the requested page number to >= 1 and computes the page
// count for total matching rows.
func NewPage(number, size, total int) Page {
	if number < 1 {
		number = 1
	}
	return Page{Number: number, Size: size, Total: total, TotalPages: TotalPages(total, size)}
}

// Offset is the row offset of the page for LIMIT/OFFSET queries.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.TotalPages }
func (p Page) Prev() int     { return p.Number - 1 }
func (p Page) Next() int     { return p.Number + 1 }
