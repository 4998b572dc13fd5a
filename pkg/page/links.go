// ABOUTME: Pagination links for paged listings
// ABOUTME: Builds self/first/last/next/prev links from offset, limit and total

package page

import (
	"fmt"
	"strings"
)

// Links navigates between pages. Next and Prev are empty when there is no
// such page.
type Links struct {
	Self  string `json:"self"`
	First string `json:"first"`
	Last  string `json:"last"`
	Next  string `json:"next,omitempty"`
	Prev  string `json:"prev,omitempty"`
}

// NewLinks builds the links for the page at offset over total entries
func NewLinks(path string, offset, limit, total int) Links {
	base := "/entries/" + strings.Trim(path, "/")
	href := func(off int) string {
		return fmt.Sprintf("%s?page[offset]=%d&page[limit]=%d", base, off, limit)
	}

	last := 0
	if limit > 0 && total > 0 {
		last = ((total - 1) / limit) * limit
	}
	l := Links{
		Self:  href(offset),
		First: href(0),
		Last:  href(last),
	}
	if limit > 0 && offset+limit < total {
		l.Next = href(offset + limit)
	}
	if offset > 0 {
		l.Prev = href(max(0, offset-limit))
	}
	return l
}
