package loader

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

// TypeField is the reserved column holding an entity's type marker.
const TypeField = "type"

// ErrTypeMarkerMissing marks a record without a usable type marker.
var ErrTypeMarkerMissing = errors.New("type marker missing")

// referenceColumn matches "otherLabel.otherField". \w is widened to Unicode
// letters and digits so non-ASCII headers behave like ASCII ones.
var referenceColumn = regexp.MustCompile(`^([\p{L}\p{N}_]+)\.([\p{L}\p{N}_]+)$`)

// Record is one normalized input row. Values are opaque text.
type Record map[string]string

// Reference is a relationship reference column resolved against a record.
type Reference struct {
	Column string
	Label  string
	Field  string
	Value  string
}

// Normalize trims surrounding whitespace from every key and value. When two
// raw keys collapse to the same trimmed key, the one sorting last byte-wise
// wins.
func Normalize(raw map[string]string) Record {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rec := make(Record, len(raw))
	for _, k := range keys {
		rec[strings.TrimSpace(k)] = strings.TrimSpace(raw[k])
	}
	return rec
}

// Validate reports ErrTypeMarkerMissing unless the record carries a
// non-empty type marker.
func Validate(rec Record) error {
	if rec.Label() == "" {
		return ErrTypeMarkerMissing
	}
	return nil
}

func (r Record) Label() string {
	return r[TypeField]
}

// ParseReferenceColumn splits a "label.field" column name.
func ParseReferenceColumn(key string) (label, field string, ok bool) {
	m := referenceColumn.FindStringSubmatch(key)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// References returns the record's relationship reference columns ordered by
// column name.
func (r Record) References() []Reference {
	var refs []Reference
	for _, key := range r.sortedKeys() {
		label, field, ok := ParseReferenceColumn(key)
		if !ok {
			continue
		}
		refs = append(refs, Reference{Column: key, Label: label, Field: field, Value: r[key]})
	}
	return refs
}

// Properties is the property set: every key except the type marker and
// reference columns.
func (r Record) Properties() map[string]string {
	props := make(map[string]string, len(r))
	for k, v := range r {
		if k == TypeField {
			continue
		}
		if _, _, ok := ParseReferenceColumn(k); ok {
			continue
		}
		props[k] = v
	}
	return props
}

func (r Record) sortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
