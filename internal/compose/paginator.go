package compose

import "github.com/Bitlatte/pinpage/internal/model"

// NewPaginator composes page and fills in the navigation fields around it.
// pathFor maps a page number to its URL path.
func NewPaginator(page, size int, pinned, defaults []*model.Post, pathFor func(int) string) *model.Paginator {
	total := len(pinned) + len(defaults)
	pages := TotalPages(total, size)

	pg := &model.Paginator{
		Page:       page,
		PerPage:    size,
		TotalPosts: total,
		TotalPages: pages,
		Posts:      Compose(page, size, pinned, defaults),
	}
	if page > 1 && page <= pages+1 {
		pg.PreviousPage = page - 1
		pg.PreviousPagePath = pathFor(pg.PreviousPage)
	}
	if page >= 1 && page < pages {
		pg.NextPage = page + 1
		pg.NextPagePath = pathFor(pg.NextPage)
	}
	return pg
}

// Paginate builds the paginator for every page of the listing, in order.
func Paginate(size int, pinned, defaults []*model.Post, pathFor func(int) string) []*model.Paginator {
	pages := TotalPages(len(pinned)+len(defaults), size)
	out := make([]*model.Paginator, 0, pages)
	for page := 1; page <= pages; page++ {
		out = append(out, NewPaginator(page, size, pinned, defaults, pathFor))
	}
	return out
}
