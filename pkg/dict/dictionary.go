package dict

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/oklog/ulid/v2"
)

// Dictionary is a complete DDLm dictionary, potentially composed from
// several merged dictionary files (spec §3.5). ID is a ULID set by New;
// Merge keeps the receiver's ID. It is not written to log lines or metric
// labels.
type Dictionary struct {
	ID         ulid.ULID
	Metadata   Metadata
	Categories map[string]*Category // keyed lowercase
	Items      map[string]*Item     // keyed lowercase canonical name
	Aliases    map[string]string    // lowercase alias -> lowercase canonical name
}

// New returns an empty Dictionary ready for Merge or direct population
// by a loader.
func New() *Dictionary {
	return &Dictionary{
		ID:         ulid.Make(),
		Categories: make(map[string]*Category),
		Items:      make(map[string]*Item),
		Aliases:    make(map[string]string),
	}
}

// ResolveName lowercases name and, if it is a registered alias, maps
// it to its canonical form; otherwise returns the lowercased name
// unchanged (spec §4.9).
func (d *Dictionary) ResolveName(name string) string {
	lower := strings.ToLower(name)
	if canonical, ok := d.Aliases[lower]; ok {
		return canonical
	}
	return lower
}

// GetItem looks up an item by name or alias, case-insensitively (spec
// §4.9).
func (d *Dictionary) GetItem(name string) (*Item, bool) {
	item, ok := d.Items[d.ResolveName(name)]
	return item, ok
}

// HasItem reports whether name (or one of its aliases) resolves to a
// known item (spec §4.9).
func (d *Dictionary) HasItem(name string) bool {
	_, ok := d.GetItem(name)
	return ok
}

// GetCategory looks up a category by name, case-insensitively (spec
// §4.9).
func (d *Dictionary) GetCategory(name string) (*Category, bool) {
	cat, ok := d.Categories[strings.ToLower(name)]
	return cat, ok
}

// ItemNames returns every canonical item name in the dictionary.
func (d *Dictionary) ItemNames() []string {
	names := make([]string, 0, len(d.Items))
	for n := range d.Items {
		names = append(names, n)
	}
	return names
}

// CategoryNames returns every category name in the dictionary.
func (d *Dictionary) CategoryNames() []string {
	names := make([]string, 0, len(d.Categories))
	for n := range d.Categories {
		names = append(names, n)
	}
	return names
}

// Merge folds other into d: categories and items replace outright on
// name collision, every incoming alias (plus each incoming item's own
// aliases) is registered, and metadata fields overwrite when the
// incoming value is non-empty (spec §3.5, §4.9). Metadata.Version is
// the one field given extra care: when both the current and incoming
// version parse as semver, the incoming version only wins the
// overwrite when it is not older, so merging an older supplementary
// dictionary last doesn't silently downgrade the reported version;
// when either side fails to parse, the plain "incoming wins" rule
// from the spec applies.
func (d *Dictionary) Merge(other *Dictionary) {
	mergeMetadata(&d.Metadata, other.Metadata)

	for name, cat := range other.Categories {
		d.Categories[name] = cat
	}

	for name, item := range other.Items {
		for _, alias := range item.Aliases {
			d.Aliases[strings.ToLower(alias)] = name
		}
		d.Items[name] = item
	}

	for alias, canonical := range other.Aliases {
		d.Aliases[alias] = canonical
	}
}

func mergeMetadata(m *Metadata, incoming Metadata) {
	if incoming.Title != "" {
		m.Title = incoming.Title
	}
	if incoming.Version != "" {
		m.Version = mergeVersion(m.Version, incoming.Version)
	}
	if incoming.Date != "" {
		m.Date = incoming.Date
	}
	if incoming.URI != "" {
		m.URI = incoming.URI
	}
	if incoming.DDLConformance != "" {
		m.DDLConformance = incoming.DDLConformance
	}
	if incoming.Namespace != "" {
		m.Namespace = incoming.Namespace
	}
}

func mergeVersion(current, incoming string) string {
	if current == "" {
		return incoming
	}
	currentVer, curErr := semver.NewVersion(current)
	incomingVer, incErr := semver.NewVersion(incoming)
	if curErr != nil || incErr != nil {
		return incoming
	}
	if incomingVer.LessThan(currentVer) {
		return current
	}
	return incoming
}
