package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gmile/pocketeer/pocket"
)

// formatItemList formats a list of items for console display
func formatItemList(items []pocket.Item, showDetails bool) string {
	if len(items) == 0 {
		return "No items found\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\nItem")
	if len(items) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(items))

	// Format each item
	for i, item := range items {
		isLast := i == len(items)-1
		formatItem(&sb, item, isLast, showDetails)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// formatItem formats a single item entry
func formatItem(sb *strings.Builder, item pocket.Item, isLast bool, showDetails bool) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	title := item.Title()
	if title == "" {
		title = item.URL()
	}

	fmt.Fprintf(sb, "%s── %s", prefix, title)
	if item.IsFavorite() {
		sb.WriteString(" [FAVORITE]")
	}
	if item.IsArchived() {
		sb.WriteString(" [ARCHIVED]")
	}
	sb.WriteString("\n")

	indent := "│   "
	if isLast {
		indent = "    "
	}

	fmt.Fprintf(sb, "%s%s\n", indent, item.URL())

	if !showDetails {
		return
	}

	fmt.Fprintf(sb, "%sID: %s\n", indent, item.ItemID)

	if tags := item.TagNames(); len(tags) > 0 {
		fmt.Fprintf(sb, "%sTags: %s\n", indent, strings.Join(tags, ", "))
	}

	var dateParts []string
	if added := item.AddedAt(); !added.IsZero() {
		dateParts = append(dateParts, fmt.Sprintf("Added: %s", added.Format("2006-01-02")))
	}
	if read := item.ReadAt(); !read.IsZero() {
		dateParts = append(dateParts, fmt.Sprintf("Read: %s", read.Format("2006-01-02")))
	}
	if len(dateParts) > 0 {
		fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(dateParts, " | "))
	}

	if words := item.Words(); words > 0 {
		readingInfo := fmt.Sprintf("%d words", words)
		if item.TimeToRead > 0 {
			readingInfo += fmt.Sprintf(" (~%d min)", item.TimeToRead)
		}
		fmt.Fprintf(sb, "%s%s\n", indent, readingInfo)
	}
}

// formatBatchJSON renders the actions a batch would send, for dry-run output
func formatBatchJSON(batch pocket.Batch) (string, error) {
	encoded, err := json.MarshalIndent(batch.Actions(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
