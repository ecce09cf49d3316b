package wikitext

import (
	"fmt"
	"strings"
)

// MetaType is the attribute that names an HTML <meta> element.
type MetaType int

const (
	MetaName      MetaType = iota // <meta name="...">
	MetaHTTPEquiv                 // <meta http-equiv="...">
	MetaProperty                  // <meta property="...">
)

var metaTypeNames = [...]string{
	MetaName:      "name",
	MetaHTTPEquiv: "http-equiv",
	MetaProperty:  "property",
}

func (t MetaType) String() string {
	if int(t) >= 0 && int(t) < len(metaTypeNames) {
		return metaTypeNames[t]
	}
	return fmt.Sprintf("meta(%d)", int(t))
}

// MarshalText encodes the meta type by attribute name.
func (t MetaType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes an attribute name.
func (t *MetaType) UnmarshalText(b []byte) error {
	v, err := ParseMetaType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseMetaType converts "name", "http-equiv" or "property", ignoring case.
func ParseMetaType(s string) (MetaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return MetaName, nil
	case "http-equiv", "httpequiv":
		return MetaHTTPEquiv, nil
	case "property":
		return MetaProperty, nil
	}
	return 0, fmt.Errorf("unknown meta type %q", s)
}

// MetaEntry is one HTML head <meta> element.
type MetaEntry struct {
	Type  MetaType `json:"type"`
	Name  string   `json:"name"`
	Value string   `json:"value"`
}

// multiValued names repeat once per value instead of being overwritten.
var multiValued = map[string]bool{
	"og:tag": true,
}

type metaKey struct {
	typ   MetaType
	name  string
	value string
}

func keyOf(e MetaEntry) metaKey {
	k := metaKey{typ: e.Type, name: e.Name}
	if multiValued[e.Name] {
		k.value = e.Value
	}
	return k
}

// metaList is an ordered list of entries unique by key.
type metaList struct {
	entries []MetaEntry
	index   map[metaKey]int
}

// set appends e, or overwrites the value of an existing entry in place.
func (m *metaList) set(e MetaEntry) {
	if m.index == nil {
		m.index = make(map[metaKey]int)
	}
	k := keyOf(e)
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = e.Value
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, e)
}

// SynthesizeMeta seeds the meta list from page info and then applies
// module-produced entries, last write wins per (type, name).
func SynthesizeMeta(info *PageInfo, produced []MetaEntry) []MetaEntry {
	var list metaList

	list.set(MetaEntry{Type: MetaProperty, Name: "og:title", Value: info.Title})
	list.set(MetaEntry{Type: MetaName, Name: "title", Value: info.Title})
	if info.AltTitle != nil {
		list.set(MetaEntry{Type: MetaName, Name: "description", Value: *info.AltTitle})
	}
	for _, tag := range info.Tags {
		list.set(MetaEntry{Type: MetaProperty, Name: "og:tag", Value: tag})
	}

	for _, e := range produced {
		list.set(e)
	}

	if list.entries == nil {
		return []MetaEntry{}
	}
	return list.entries
}
