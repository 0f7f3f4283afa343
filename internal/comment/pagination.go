package comment

import "strconv"

const defaultPageLimit = 5

// Page is the resolved pagination window. Page, TotalPages and Total are
// echoed to the caller as response metadata.
type Page struct {
	Skip       int64 `json:"-"`
	Limit      int64 `json:"-"`
	Page       int64 `json:"currentPage"`
	TotalPages int64 `json:"totalPages"`
	Total      int64 `json:"totalComments"`
}

// ResolvePage normalizes raw page/limit query parameters against a known
// document count:
//
//   - limit falls back to 5 when absent, non-numeric or non-positive
//   - page falls back to 1 when absent or non-numeric, and clamps up to 1
//   - page clamps down to totalPages when beyond range; with an empty corpus
//     totalPages is 0 and so is the clamped page, which makes the follow-up
//     find return an empty set rather than fail
//   - skip never goes negative
func ResolvePage(page, limit string, total int64) Page {
	l, err := strconv.ParseInt(limit, 10, 64)
	if err != nil || l < 1 {
		l = defaultPageLimit
	}

	p, err := strconv.ParseInt(page, 10, 64)
	if err != nil {
		p = 1
	}
	if p < 1 {
		p = 1
	}

	totalPages := (total + l - 1) / l
	if p > totalPages {
		p = totalPages
	}

	skip := (p - 1) * l
	if skip < 0 {
		skip = 0
	}

	return Page{
		Skip:       skip,
		Limit:      l,
		Page:       p,
		TotalPages: totalPages,
		Total:      total,
	}
}
