package search

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultPageSize is the number of results shown per page.
	DefaultPageSize = 10
	// DefaultTitleLimit is the title length LimitTitle shortens to.
	DefaultTitleLimit = 17
)

// Page is one page of search results. PrevPage and NextPage are zero when
// there is no page in that direction.
type Page struct {
	Items    []Summary `json:"items"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
	PrevPage int       `json:"prev_page,omitempty"`
	NextPage int       `json:"next_page,omitempty"`
	Total    int       `json:"total"`
}

// Paginate slices results into the requested page. The page number is
// clamped into the valid range and pageSize falls back to DefaultPageSize.
func Paginate(results []Summary, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := (len(results) + pageSize - 1) / pageSize

	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	p := Page{Page: page, Pages: pages, Total: len(results), Items: []Summary{}}
	if pages == 0 {
		return p
	}

	start := (page - 1) * pageSize
	end := min(page*pageSize, len(results))
	p.Items = append(p.Items, results[start:end]...)

	if page > 1 {
		p.PrevPage = page - 1
	}
	if page < pages {
		p.NextPage = page + 1
	}
	return p
}

// LimitTitle shortens title to the leading words whose combined length
// (spaces not counted) stays within limit, and marks the cut with " ...".
// Lengths are counted in characters, not bytes.
func LimitTitle(title string, limit int) string {
	if limit <= 0 {
		limit = DefaultTitleLimit
	}
	if utf8.RuneCountInString(title) <= limit {
		return title
	}

	var kept []string
	acc := 0
	for _, word := range strings.Split(title, " ") {
		n := utf8.RuneCountInString(word)
		if acc+n <= limit {
			kept = append(kept, word)
		}
		acc += n
	}
	return strings.Join(kept, " ") + " ..."
}
