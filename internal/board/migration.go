package board

import (
	"strings"

	"github.com/mdouchement/visionboard/pkg/libvb"
)

// DropNotesWithContent removes the items whose trimmed content equals one of the given texts.
// It is used to purge legacy placeholder notes once.
func DropNotesWithContent(texts ...string) Migration {
	drop := map[string]bool{}
	for _, text := range texts {
		if text = strings.TrimSpace(text); text != "" {
			drop[text] = true
		}
	}

	return func(doc *libvb.Document) bool {
		if len(drop) == 0 {
			return false
		}

		items := make([]libvb.Item, 0, len(doc.Items))
		for _, item := range doc.Items {
			if !drop[strings.TrimSpace(item.Content)] {
				items = append(items, item)
			}
		}

		if len(items) == len(doc.Items) {
			return false
		}
		doc.Items = items
		return true
	}
}
