package pocket

import (
	"encoding/json"
	"time"
)

// ActionKind names one of the mutations the send endpoint accepts.
type ActionKind string

// The action kinds understood by the send endpoint.
const (
	ActionAdd         ActionKind = "add"
	ActionArchive     ActionKind = "archive"
	ActionReadd       ActionKind = "readd"
	ActionFavorite    ActionKind = "favorite"
	ActionUnfavorite  ActionKind = "unfavorite"
	ActionDelete      ActionKind = "delete"
	ActionTagsAdd     ActionKind = "tags_add"
	ActionTagsRemove  ActionKind = "tags_remove"
	ActionTagsReplace ActionKind = "tags_replace"
	ActionTagsClear   ActionKind = "tags_clear"
	ActionTagRename   ActionKind = "tag_rename"
	ActionTagDelete   ActionKind = "tag_delete"
)

// Action is a single mutation applied to a single item. Only the fields a
// given kind uses are populated; everything else stays off the wire. The
// builder performs no validation: an empty or unknown item id is forwarded
// verbatim and rejected (or not) by the server.
type Action struct {
	Action ActionKind `json:"action"`
	ItemID string     `json:"item_id,omitempty"`
	URL    string     `json:"url,omitempty"`
	Title  string     `json:"title,omitempty"`
	RefID  string     `json:"ref_id,omitempty"`
	Tags   string     `json:"tags,omitempty"`
	OldTag string     `json:"old_tag,omitempty"`
	NewTag string     `json:"new_tag,omitempty"`
	Tag    string     `json:"tag,omitempty"`
	Time   string     `json:"time,omitempty"`

	// Timestamp is stamped uniformly across the batch when it is sent.
	// A non-zero value set by the caller is kept as-is.
	Timestamp int64 `json:"timestamp,omitempty"`
}

// NewItem identifies an item to save through a batch add action: URL for a
// fresh save, ItemID to re-save something the service already knows about.
// Title, Tags and TweetID ride along when set.
type NewItem struct {
	URL     string
	ItemID  string
	Title   string
	Tags    Tags
	TweetID string
}

// Batch is an ordered collection of actions for the send endpoint. Batch is
// a value type with copy-on-append semantics: every mutator returns a new
// Batch backed by a fresh array and leaves its receiver untouched, so a
// Batch held before a chain of calls stays valid afterwards.
//
//	unread := pocket.NewBatch().Archive("1", "2")
//	tagged := unread.TagsAdd(pocket.Tags{"later"}, "3")
//	// unread still holds exactly two actions
type Batch struct {
	actions []Action
}

// NewBatch returns an empty batch. The zero value is equivalent.
func NewBatch() Batch {
	return Batch{}
}

// Len reports the number of actions accumulated so far.
func (b Batch) Len() int {
	return len(b.actions)
}

// Actions returns a copy of the accumulated actions in append order.
func (b Batch) Actions() []Action {
	out := make([]Action, len(b.actions))
	copy(out, b.actions)
	return out
}

// Append returns a batch holding the receiver's actions followed by the
// given ones. The receiver is not modified.
func (b Batch) Append(actions ...Action) Batch {
	merged := make([]Action, 0, len(b.actions)+len(actions))
	merged = append(merged, b.actions...)
	merged = append(merged, actions...)
	return Batch{actions: merged}
}

// fanOut appends one action of the given kind per item id, in argument
// order. A tags value, when present, is attached to every generated action.
func (b Batch) fanOut(kind ActionKind, itemIDs []string, tags string) Batch {
	actions := make([]Action, 0, len(itemIDs))
	for _, id := range itemIDs {
		actions = append(actions, Action{Action: kind, ItemID: id, Tags: tags})
	}
	return b.Append(actions...)
}

// Add appends an add action saving a new item.
func (b Batch) Add(item NewItem) Batch {
	a := Action{
		Action: ActionAdd,
		ItemID: item.ItemID,
		URL:    item.URL,
		Title:  item.Title,
		RefID:  item.TweetID,
	}
	if !item.Tags.IsZero() {
		a.Tags = item.Tags.String()
	}
	return b.Append(a)
}

// Archive appends one archive action per item id.
func (b Batch) Archive(itemIDs ...string) Batch {
	return b.fanOut(ActionArchive, itemIDs, "")
}

// Readd appends one readd action per item id, moving archived items back
// to the unread list.
func (b Batch) Readd(itemIDs ...string) Batch {
	return b.fanOut(ActionReadd, itemIDs, "")
}

// Favorite appends one favorite action per item id.
func (b Batch) Favorite(itemIDs ...string) Batch {
	return b.fanOut(ActionFavorite, itemIDs, "")
}

// Unfavorite appends one unfavorite action per item id.
func (b Batch) Unfavorite(itemIDs ...string) Batch {
	return b.fanOut(ActionUnfavorite, itemIDs, "")
}

// Delete appends one delete action per item id. Deletion is permanent on
// the server side.
func (b Batch) Delete(itemIDs ...string) Batch {
	return b.fanOut(ActionDelete, itemIDs, "")
}

// TagsAdd appends one tags_add action per item id. The whole tag set is
// normalized once and attached to every action: tagging several items in
// one call gives each of them the same tags. There is no element-wise
// pairing of ids to tags.
func (b Batch) TagsAdd(tags Tags, itemIDs ...string) Batch {
	return b.fanOut(ActionTagsAdd, itemIDs, tags.String())
}

// TagsRemove appends one tags_remove action per item id, removing the same
// tag set from each of them.
func (b Batch) TagsRemove(tags Tags, itemIDs ...string) Batch {
	return b.fanOut(ActionTagsRemove, itemIDs, tags.String())
}

// TagsReplace appends one tags_replace action per item id, replacing each
// item's tags with the same tag set.
func (b Batch) TagsReplace(tags Tags, itemIDs ...string) Batch {
	return b.fanOut(ActionTagsReplace, itemIDs, tags.String())
}

// TagsClear appends one tags_clear action per item id.
func (b Batch) TagsClear(itemIDs ...string) Batch {
	return b.fanOut(ActionTagsClear, itemIDs, "")
}

// TagRename appends a single tag_rename action carrying the old and new
// tag names.
func (b Batch) TagRename(itemID, oldTag, newTag string) Batch {
	return b.Append(Action{
		Action: ActionTagRename,
		ItemID: itemID,
		OldTag: oldTag,
		NewTag: newTag,
	})
}

// TagDelete appends a single tag_delete action removing one tag.
func (b Batch) TagDelete(itemID, tag string) Batch {
	return b.Append(Action{
		Action: ActionTagDelete,
		ItemID: itemID,
		Tag:    tag,
	})
}

// MarshalJSON encodes the batch as its action array.
func (b Batch) MarshalJSON() ([]byte, error) {
	if b.actions == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(b.actions)
}

// stamped returns a copy of the actions with the shared dispatch timestamp
// applied. Every action sent together carries the same Unix-seconds value;
// actions with an explicit Timestamp keep theirs. The batch itself is left
// unchanged, so sending it again later stamps the later time.
func (b Batch) stamped(now time.Time) []Action {
	ts := now.Unix()
	actions := make([]Action, len(b.actions))
	copy(actions, b.actions)
	for i := range actions {
		if actions[i].Timestamp == 0 {
			actions[i].Timestamp = ts
		}
	}
	return actions
}
