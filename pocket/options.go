package pocket

import "time"

// State filters retrieval by reading state.
type State string

// Retrieval states accepted by the retrieve endpoint.
const (
	StateUnread  State = "unread"
	StateArchive State = "archive"
	StateAll     State = "all"
)

// ContentType filters retrieval by media kind.
type ContentType string

// Content types accepted by the retrieve endpoint.
const (
	ContentTypeArticle ContentType = "article"
	ContentTypeVideo   ContentType = "video"
	ContentTypeImage   ContentType = "image"
)

// Sort selects the order the retrieve endpoint returns items in.
type Sort string

// Sort orders accepted by the retrieve endpoint.
const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
	SortTitle  Sort = "title"
	SortSite   Sort = "site"
)

// DetailType selects how much of each item the retrieve endpoint returns.
type DetailType string

// Detail levels accepted by the retrieve endpoint.
const (
	DetailSimple   DetailType = "simple"
	DetailComplete DetailType = "complete"
)

// FavoriteFilter narrows retrieval by favorite status. The zero value
// leaves the filter off entirely.
type FavoriteFilter int

// Favorite filter states.
const (
	FavoriteAny FavoriteFilter = iota
	FavoritedOnly
	UnfavoritedOnly
)

// RetrieveOptions narrows what the retrieve endpoint returns. The zero
// value requests the server defaults; only fields the caller sets reach
// the wire.
type RetrieveOptions struct {
	State       State
	Favorite    FavoriteFilter
	Tag         Tags
	ContentType ContentType
	Sort        Sort
	DetailType  DetailType
	Search      string
	Domain      string
	Since       time.Time
	Count       int
	Offset      int

	// Total asks the server to report the total matching item count,
	// which RetrieveAll uses to plan its page fetches.
	Total bool
}

// params maps the set options onto the wire fields the retrieve endpoint
// accepts. Unset fields are omitted rather than sent empty.
func (o RetrieveOptions) params() map[string]any {
	p := make(map[string]any)
	if o.State != "" {
		p["state"] = string(o.State)
	}
	switch o.Favorite {
	case FavoritedOnly:
		p["favorite"] = "1"
	case UnfavoritedOnly:
		p["favorite"] = "0"
	}
	if !o.Tag.IsZero() {
		p["tag"] = o.Tag.String()
	}
	if o.ContentType != "" {
		p["contentType"] = string(o.ContentType)
	}
	if o.Sort != "" {
		p["sort"] = string(o.Sort)
	}
	if o.DetailType != "" {
		p["detailType"] = string(o.DetailType)
	}
	if o.Search != "" {
		p["search"] = o.Search
	}
	if o.Domain != "" {
		p["domain"] = o.Domain
	}
	if !o.Since.IsZero() {
		p["since"] = o.Since.Unix()
	}
	if o.Count > 0 {
		p["count"] = o.Count
	}
	if o.Offset > 0 {
		p["offset"] = o.Offset
	}
	if o.Total {
		p["total"] = "1"
	}
	return p
}

// AddOptions describes a single item for the add endpoint. The endpoint
// accepts exactly these four fields; anything else a caller might want to
// send has no representation here, so nothing unexpected can reach the
// wire. A missing URL is a caller error the server reports.
type AddOptions struct {
	URL     string
	Title   string
	Tags    Tags
	TweetID string
}

// params maps the set options onto the add endpoint's wire fields.
func (o AddOptions) params() map[string]any {
	p := make(map[string]any, 4)
	if o.URL != "" {
		p["url"] = o.URL
	}
	if o.Title != "" {
		p["title"] = o.Title
	}
	if !o.Tags.IsZero() {
		p["tags"] = o.Tags.String()
	}
	if o.TweetID != "" {
		p["tweet_id"] = o.TweetID
	}
	return p
}
