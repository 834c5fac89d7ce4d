// Package compose builds the home page post listing. Pinned posts occupy the
// first slots of one virtual list followed by the default posts, and that
// list is paged uniformly.
package compose

import (
	"strconv"
	"strings"

	"github.com/Bitlatte/pinpage/internal/model"
)

// Compose returns the posts shown on the given 1-based page.
// A page past the end yields an empty list. Neither input slice is modified.
func Compose(page, size int, pinned, defaults []*model.Post) []*model.Post {
	total := len(pinned) + len(defaults)
	// Checked before multiplying so huge page numbers cannot overflow offset.
	if page < 1 || size < 1 || page-1 > total/size {
		return []*model.Post{}
	}
	offset := (page - 1) * size
	result := make([]*model.Post, 0, min(size, total-min(offset, total)))

	pinnedCount := max(0, min(len(pinned)-offset, size))
	if pinnedCount > 0 {
		result = append(result, pinned[offset:offset+pinnedCount]...)
	}

	defaultStart := max(0, offset-len(pinned))
	if defaultStart >= len(defaults) {
		return result
	}
	defaultCount := min(size-pinnedCount, len(defaults)-defaultStart)
	return append(result, defaults[defaultStart:defaultStart+defaultCount]...)
}

// Split partitions posts into pinned and default posts, keeping their order.
func Split(posts []*model.Post) (pinned, defaults []*model.Post) {
	for _, p := range posts {
		if p.Pin {
			pinned = append(pinned, p)
		} else {
			defaults = append(defaults, p)
		}
	}
	return pinned, defaults
}

// TotalPages is the number of pages needed for total posts. An empty site
// still has one (empty) home page.
func TotalPages(total, size int) int {
	if size < 1 || total <= 0 {
		return 1
	}
	return (total-1)/size + 1
}

// PagePath expands a paginate path pattern such as "/page:num/" for page.
// Page 1 is always the site root.
func PagePath(pattern string, page int) string {
	if page <= 1 {
		return "/"
	}
	p := strings.ReplaceAll(pattern, ":num", strconv.Itoa(page))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") && !strings.HasSuffix(p, ".html") {
		p += "/"
	}
	return p
}
