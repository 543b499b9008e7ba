package pocket

import (
	"bytes"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// ItemStatus reports an item's reading state as the API encodes it.
type ItemStatus string

// Item states.
const (
	StatusUnread   ItemStatus = "0"
	StatusArchived ItemStatus = "1"
	StatusDeleted  ItemStatus = "2"
)

// Item is one saved page as the retrieve endpoint reports it. The API
// speaks almost entirely in strings, including numbers, booleans and Unix
// timestamps; the accessor methods convert the common ones.
type Item struct {
	ItemID         string                `json:"item_id"`
	ResolvedID     string                `json:"resolved_id"`
	GivenURL       string                `json:"given_url"`
	ResolvedURL    string                `json:"resolved_url"`
	GivenTitle     string                `json:"given_title"`
	ResolvedTitle  string                `json:"resolved_title"`
	Favorite       string                `json:"favorite"`
	Status         ItemStatus            `json:"status"`
	Excerpt        string                `json:"excerpt"`
	IsArticle      string                `json:"is_article"`
	IsIndex        string                `json:"is_index"`
	HasVideo       string                `json:"has_video"`
	HasImage       string                `json:"has_image"`
	WordCount      string                `json:"word_count"`
	Lang           string                `json:"lang"`
	TimeAdded      string                `json:"time_added"`
	TimeUpdated    string                `json:"time_updated"`
	TimeRead       string                `json:"time_read"`
	TimeFavorited  string                `json:"time_favorited"`
	TimeToRead     int                   `json:"time_to_read"`
	SortID         int                   `json:"sort_id"`
	TopImageURL    string                `json:"top_image_url"`
	Tags           map[string]ItemTag    `json:"tags"`
	Authors        map[string]ItemAuthor `json:"authors"`
	Images         map[string]ItemImage  `json:"images"`
	Videos         map[string]ItemVideo  `json:"videos"`
	DomainMetadata *DomainMetadata       `json:"domain_metadata"`
}

// ItemTag is one tag attached to an item.
type ItemTag struct {
	ItemID string `json:"item_id"`
	Tag    string `json:"tag"`
}

// ItemAuthor is one author attached to an item.
type ItemAuthor struct {
	ItemID   string `json:"item_id"`
	AuthorID string `json:"author_id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

// ItemImage is one image attached to an item.
type ItemImage struct {
	ItemID  string `json:"item_id"`
	ImageID string `json:"image_id"`
	Src     string `json:"src"`
	Width   string `json:"width"`
	Height  string `json:"height"`
	Credit  string `json:"credit"`
	Caption string `json:"caption"`
}

// ItemVideo is one video attached to an item.
type ItemVideo struct {
	ItemID  string `json:"item_id"`
	VideoID string `json:"video_id"`
	Src     string `json:"src"`
	Width   string `json:"width"`
	Height  string `json:"height"`
	Type    string `json:"type"`
	Vid     string `json:"vid"`
}

// DomainMetadata describes the site an item was saved from.
type DomainMetadata struct {
	Name          string `json:"name"`
	Logo          string `json:"logo"`
	GreyscaleLogo string `json:"greyscale_logo"`
}

// Title returns the item's resolved title, falling back to the title it
// was saved with.
func (i Item) Title() string {
	if i.ResolvedTitle != "" {
		return i.ResolvedTitle
	}
	return i.GivenTitle
}

// URL returns the item's resolved URL, falling back to the URL it was
// saved with.
func (i Item) URL() string {
	if i.ResolvedURL != "" {
		return i.ResolvedURL
	}
	return i.GivenURL
}

// Domain returns the host part of the item's URL, without any www prefix.
func (i Item) Domain() string {
	u, err := url.Parse(i.URL())
	if err != nil || u.Host == "" {
		return ""
	}
	host := u.Host
	if len(host) > 4 && host[:4] == "www." {
		host = host[4:]
	}
	return host
}

// IsFavorite reports whether the item is starred.
func (i Item) IsFavorite() bool {
	return i.Favorite == "1"
}

// IsArchived reports whether the item has been archived.
func (i Item) IsArchived() bool {
	return i.Status == StatusArchived
}

// Words returns the item's word count, 0 when unknown.
func (i Item) Words() int {
	n, err := strconv.Atoi(i.WordCount)
	if err != nil {
		return 0
	}
	return n
}

// AddedAt returns the time the item was saved, the zero time when unknown.
func (i Item) AddedAt() time.Time {
	return unixTime(i.TimeAdded)
}

// UpdatedAt returns the time the item last changed, the zero time when
// unknown.
func (i Item) UpdatedAt() time.Time {
	return unixTime(i.TimeUpdated)
}

// ReadAt returns the time the item was read, the zero time when unread or
// unknown.
func (i Item) ReadAt() time.Time {
	return unixTime(i.TimeRead)
}

// TagNames returns the item's tag names sorted alphabetically.
func (i Item) TagNames() []string {
	if len(i.Tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(i.Tags))
	for name := range i.Tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func unixTime(s string) time.Time {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil || sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// ItemList holds retrieved items keyed by item id. It decodes the retrieve
// payload's "list" field, tolerating the API's habit of sending an empty
// JSON array instead of an empty object when nothing matched.
type ItemList map[string]Item

// UnmarshalJSON implements json.Unmarshaler.
func (l *ItemList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		*l = ItemList{}
		return nil
	}
	var m map[string]Item
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*l = m
	return nil
}

// Items returns the list as a slice, newest first. Lists merged from
// several pages carry clashing sort_ids, so ordering falls back to the
// time each item was saved.
func (l ItemList) Items() []Item {
	items := make([]Item, 0, len(l))
	for _, item := range l {
		items = append(items, item)
	}
	sort.Slice(items, func(a, b int) bool {
		ta, tb := items[a].AddedAt(), items[b].AddedAt()
		if !ta.Equal(tb) {
			return ta.After(tb)
		}
		return items[a].ItemID < items[b].ItemID
	})
	return items
}

// RetrieveResult is the retrieve endpoint's decoded payload.
type RetrieveResult struct {
	Status   int      `json:"status"`
	Complete int      `json:"complete"`
	List     ItemList `json:"list"`
	Total    string   `json:"total"`
	Since    int64    `json:"since"`
}

// Items returns the list as a slice ordered by the server's sort_id, which
// reflects the requested sort order. The map itself has no useful order.
func (r *RetrieveResult) Items() []Item {
	items := make([]Item, 0, len(r.List))
	for _, item := range r.List {
		items = append(items, item)
	}
	sort.Slice(items, func(a, b int) bool {
		return items[a].SortID < items[b].SortID
	})
	return items
}

// TotalCount returns the server-reported total matching item count, 0 when
// the server did not report one. Only populated when the request asked for
// a total.
func (r *RetrieveResult) TotalCount() int {
	n, err := strconv.Atoi(r.Total)
	if err != nil {
		return 0
	}
	return n
}

// AddedItem is the add endpoint's confirmation payload: the resolved
// metadata the server stored for the new save. It is a slimmer cousin of
// Item with its own field names.
type AddedItem struct {
	ItemID         string `json:"item_id"`
	NormalURL      string `json:"normal_url"`
	ResolvedID     string `json:"resolved_id"`
	ResolvedURL    string `json:"resolved_url"`
	DomainID       string `json:"domain_id"`
	OriginDomainID string `json:"origin_domain_id"`
	ResponseCode   string `json:"response_code"`
	MimeType       string `json:"mime_type"`
	ContentLength  string `json:"content_length"`
	Encoding       string `json:"encoding"`
	DateResolved   string `json:"date_resolved"`
	DatePublished  string `json:"date_published"`
	Title          string `json:"title"`
	Excerpt        string `json:"excerpt"`
	WordCount      string `json:"word_count"`
	HasImage       string `json:"has_image"`
	HasVideo       string `json:"has_video"`
	IsIndex        string `json:"is_index"`
	IsArticle      string `json:"is_article"`
}

// AddResult is the add endpoint's decoded payload.
type AddResult struct {
	Status int       `json:"status"`
	Item   AddedItem `json:"item"`
}

// SendResult is the send endpoint's per-batch outcome. ActionResults holds
// one entry per submitted action in submission order; an entry is a JSON
// boolean, or an object for add actions (the saved item). ActionErrors
// mirrors it with null for successes.
type SendResult struct {
	Status        int               `json:"status"`
	ActionResults []json.RawMessage `json:"action_results"`
	ActionErrors  []json.RawMessage `json:"action_errors"`
}

// ActionSucceeded reports whether the i-th submitted action succeeded. An
// object result (as add actions return) counts as success; an index with
// no recorded result does not.
func (r *SendResult) ActionSucceeded(i int) bool {
	if i < 0 || i >= len(r.ActionResults) {
		return false
	}
	raw := bytes.TrimSpace(r.ActionResults[i])
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case '{', '[':
		return true
	default:
		return string(raw) == "true"
	}
}

// AllSucceeded reports whether every submitted action succeeded.
func (r *SendResult) AllSucceeded() bool {
	for i := range r.ActionResults {
		if !r.ActionSucceeded(i) {
			return false
		}
	}
	return true
}
