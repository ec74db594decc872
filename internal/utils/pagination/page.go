package pagination

// Limits bounds page sizes accepted from clients.
type Limits struct {
	Default int
	Max     int
}

// Normalize clamps a 1-based page number and a page size to sane values.
// A non-positive limit falls back to l.Default; a limit above l.Max is capped.
func Normalize(page, limit int, l Limits) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = l.Default
	}
	if l.Max > 0 && limit > l.Max {
		limit = l.Max
	}
	if limit <= 0 {
		limit = 20
	}
	return page, limit
}

// Offset returns the number of rows to skip for a 1-based page.
func Offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}

// Pages returns how many pages of size limit are needed to hold total rows.
func Pages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
