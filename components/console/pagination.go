package console

// PageSizes are the page-size choices offered by every list view.
var PageSizes = []int{5, 10, 20, 50}

const defaultPageSize = 10

// normalizePageSize coerces any size outside the PageSizes catalog back to
// the default, so hand-edited query parameters cannot set arbitrary sizes.
func normalizePageSize(size int) int {
	for _, s := range PageSizes {
		if size == s {
			return size
		}
	}
	return defaultPageSize
}

// PageItem is one element of the rendered pagination strip: either a page
// number or an ellipsis gap marker.
type PageItem struct {
	Number   int
	Ellipsis bool
	Current  bool
}

// TotalPages computes the page count for a result set, floored at one page.
func TotalPages(totalResults, pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	pages := (totalResults + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// PaginationItems builds the numbering strip: page 1 and the last page are
// always present, a window of two pages either side of the current page sits
// between them, and an ellipsis marks each gap where the window does not
// touch a boundary.
func PaginationItems(page, totalPages int) []PageItem {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	items := []PageItem{{Number: 1, Current: page == 1}}

	start := page - 2
	if start < 2 {
		start = 2
	}
	end := page + 2
	if end > totalPages-1 {
		end = totalPages - 1
	}

	if start > 2 {
		items = append(items, PageItem{Ellipsis: true})
	}
	for i := start; i <= end; i++ {
		items = append(items, PageItem{Number: i, Current: i == page})
	}
	if end < totalPages-1 {
		items = append(items, PageItem{Ellipsis: true})
	}
	if totalPages > 1 {
		items = append(items, PageItem{Number: totalPages, Current: page == totalPages})
	}
	return items
}

// CanPrev reports whether the Previous control is enabled.
func CanPrev(page int) bool {
	return page > 1
}

// CanNext reports whether the Next control is enabled. With a bare-array
// response totalResults is zero, so Next degrades to disabled.
func CanNext(page, pageSize, totalResults int) bool {
	return page*pageSize < totalResults
}
