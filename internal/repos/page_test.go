package repos

import "testing"

func TestTotalPages(t *testing.T) {
	cases := []struct{ total, size, want int }{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{31, 15, 3},
	}
	for _, c := range cases {
		if got := TotalPages(c.total, c.size); got != c.want {
			t.Fatalf("TotalPages(%d,%d)=%d want %d", c.total, c.size, got, c.want)
		}
	}
}

func TestNewPageClampsAndNavigates(t *testing.T) {
	p := NewPage(0, 10, 25)
	if p.Number != 1 || p.Offset() != 0 || p.HasPrev() || !p.HasNext() {
		t.Fatalf("first page: %+v", p)
	}
	p = NewPage(3, 10, 25)
	if p.Offset() != 20 || !p.HasPrev() || p.HasNext() || p.Prev() != 2 {
		t.Fatalf("last page: %+v", p)
	}
}
