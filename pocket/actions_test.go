package pocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchSingleAction(t *testing.T) {
	batch := NewBatch().Archive("1")

	require.Equal(t, 1, batch.Len())
	assert.Equal(t, Action{Action: ActionArchive, ItemID: "1"}, batch.Actions()[0])

	// Only the two set fields appear on the wire.
	data, err := json.Marshal(batch)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"action":"archive","item_id":"1"}]`, string(data))
}

func TestBatchFanOut(t *testing.T) {
	batch := NewBatch().Favorite("2", "3")

	require.Equal(t, 2, batch.Len())
	actions := batch.Actions()
	assert.Equal(t, Action{Action: ActionFavorite, ItemID: "2"}, actions[0])
	assert.Equal(t, Action{Action: ActionFavorite, ItemID: "3"}, actions[1])
}

func TestBatchChainingKeepsOrder(t *testing.T) {
	batch := NewBatch().Archive("1").Favorite("2")

	require.Equal(t, 2, batch.Len())
	actions := batch.Actions()
	assert.Equal(t, ActionArchive, actions[0].Action)
	assert.Equal(t, "1", actions[0].ItemID)
	assert.Equal(t, ActionFavorite, actions[1].Action)
	assert.Equal(t, "2", actions[1].ItemID)
}

func TestBatchTagsAddBulk(t *testing.T) {
	// One tag set, several ids: every action carries the same joined
	// string. There is no element-wise pairing.
	batch := NewBatch().TagsAdd(Tags{"a", "b"}, "1", "2")

	require.Equal(t, 2, batch.Len())
	for i, action := range batch.Actions() {
		assert.Equal(t, ActionTagsAdd, action.Action, "action %d", i)
		assert.Equal(t, "a, b", action.Tags, "action %d", i)
	}
	assert.Equal(t, "1", batch.Actions()[0].ItemID)
	assert.Equal(t, "2", batch.Actions()[1].ItemID)
}

func TestBatchTagMutators(t *testing.T) {
	batch := NewBatch().
		TagsRemove(Tags{"old"}, "1").
		TagsReplace(Tags{"x", "y"}, "2").
		TagsClear("3").
		TagRename("4", "before", "after").
		TagDelete("5", "gone")

	require.Equal(t, 5, batch.Len())
	actions := batch.Actions()

	assert.Equal(t, Action{Action: ActionTagsRemove, ItemID: "1", Tags: "old"}, actions[0])
	assert.Equal(t, Action{Action: ActionTagsReplace, ItemID: "2", Tags: "x, y"}, actions[1])
	assert.Equal(t, Action{Action: ActionTagsClear, ItemID: "3"}, actions[2])
	assert.Equal(t, Action{Action: ActionTagRename, ItemID: "4", OldTag: "before", NewTag: "after"}, actions[3])
	assert.Equal(t, Action{Action: ActionTagDelete, ItemID: "5", Tag: "gone"}, actions[4])
}

func TestBatchAdd(t *testing.T) {
	batch := NewBatch().Add(NewItem{
		URL:     "https://example.com/article",
		Title:   "An Article",
		Tags:    Tags{"read", "later"},
		TweetID: "99",
	})

	require.Equal(t, 1, batch.Len())
	assert.Equal(t, Action{
		Action: ActionAdd,
		URL:    "https://example.com/article",
		Title:  "An Article",
		Tags:   "read, later",
		RefID:  "99",
	}, batch.Actions()[0])
}

func TestBatchImmutable(t *testing.T) {
	base := NewBatch().Archive("1")

	extended := base.Favorite("2")
	assert.Equal(t, 1, base.Len(), "receiver must not grow")
	assert.Equal(t, 2, extended.Len())

	// Appending to the earlier value twice must not corrupt either
	// descendant: each append gets a fresh backing array.
	left := base.Delete("10")
	right := base.Readd("20")

	require.Equal(t, 2, left.Len())
	require.Equal(t, 2, right.Len())
	assert.Equal(t, ActionDelete, left.Actions()[1].Action)
	assert.Equal(t, ActionReadd, right.Actions()[1].Action)
	assert.Equal(t, 1, base.Len())
}

func TestBatchActionsReturnsCopy(t *testing.T) {
	batch := NewBatch().Archive("1")

	actions := batch.Actions()
	actions[0].ItemID = "mutated"

	assert.Equal(t, "1", batch.Actions()[0].ItemID)
}

func TestBatchAcceptsEmptyIDs(t *testing.T) {
	// The builder validates nothing: empty ids go on the wire verbatim.
	batch := NewBatch().Archive("")

	require.Equal(t, 1, batch.Len())
	assert.Equal(t, "", batch.Actions()[0].ItemID)

	data, err := json.Marshal(batch)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"action":"archive"}]`, string(data))
}

func TestBatchZeroValue(t *testing.T) {
	var batch Batch

	assert.Equal(t, 0, batch.Len())
	assert.Empty(t, batch.Actions())

	data, err := json.Marshal(batch)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	extended := batch.Favorite("1")
	assert.Equal(t, 1, extended.Len())
}

func TestBatchStamped(t *testing.T) {
	batch := NewBatch().Archive("1", "2").Favorite("3")
	now := time.Unix(1724572800, 0)

	stamped := batch.stamped(now)

	require.Len(t, stamped, 3)
	for i, action := range stamped {
		assert.Equal(t, int64(1724572800), action.Timestamp, "action %d", i)
	}

	// The batch itself stays unstamped, so a later send re-stamps.
	for _, action := range batch.Actions() {
		assert.Zero(t, action.Timestamp)
	}

	later := batch.stamped(now.Add(time.Hour))
	assert.Equal(t, int64(1724576400), later[0].Timestamp)
}

func TestBatchStampedKeepsExplicitTimestamp(t *testing.T) {
	batch := NewBatch().
		Append(Action{Action: ActionArchive, ItemID: "1", Timestamp: 42}).
		Archive("2")

	stamped := batch.stamped(time.Unix(1000, 0))

	assert.Equal(t, int64(42), stamped[0].Timestamp)
	assert.Equal(t, int64(1000), stamped[1].Timestamp)
}
