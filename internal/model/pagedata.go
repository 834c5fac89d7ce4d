package model

// PageData is the context handed to every layout.
type PageData struct {
	Site      *SiteData
	PageTitle string
	Post      *Post
	Paginator *Paginator // nil outside the home pages
}

// Paginator is the per-page view of the home listing.
type Paginator struct {
	Page       int
	PerPage    int
	TotalPosts int
	TotalPages int

	// PreviousPage and NextPage are zero when there is no such page.
	PreviousPage     int
	NextPage         int
	PreviousPagePath string
	NextPagePath     string

	Posts []*Post
}
