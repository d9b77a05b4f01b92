package cifast

import "github.com/cifkit/cif/pkg/span"

// Item is a single tag/value pair (spec §3.3). Tag case is preserved
// exactly as written, including the leading underscore.
type Item struct {
	Tag      string
	Value    Value
	ItemSpan span.Span
	TagSpan  span.Span
}

// ItemMap is an insertion-ordered tag->Item mapping. The spec notes block
// items are "a mapping (order not guaranteed externally, but preserved
// internally if implementation uses an insertion-ordered map)" (§5); this
// type is that insertion-ordered map.
type ItemMap struct {
	order []string
	items map[string]Item
}

// NewItemMap returns an empty ItemMap.
func NewItemMap() ItemMap {
	return ItemMap{items: make(map[string]Item)}
}

// Append adds item, replacing any existing entry with the same tag in
// place (preserving its original position) rather than appending a
// duplicate.
func (m *ItemMap) Append(item Item) {
	if m.items == nil {
		m.items = make(map[string]Item)
	}
	if _, exists := m.items[item.Tag]; !exists {
		m.order = append(m.order, item.Tag)
	}
	m.items[item.Tag] = item
}

// Get returns the Value mapped from tag, matching exactly (spec §4.3:
// "get_item(tag) ... returns the Value mapped from the exact string tag").
func (m ItemMap) Get(tag string) (Value, bool) {
	item, ok := m.items[tag]
	if !ok {
		return Value{}, false
	}
	return item.Value, true
}

// GetItem returns the full Item (including spans) for tag.
func (m ItemMap) GetItem(tag string) (Item, bool) {
	item, ok := m.items[tag]
	return item, ok
}

// Tags returns the tags in insertion order.
func (m ItemMap) Tags() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Items returns every Item in insertion order.
func (m ItemMap) Items() []Item {
	out := make([]Item, 0, len(m.order))
	for _, tag := range m.order {
		out = append(out, m.items[tag])
	}
	return out
}

// Len returns the number of items.
func (m ItemMap) Len() int { return len(m.order) }
