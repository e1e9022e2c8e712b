package loader

import (
	"fmt"

	"github.com/yungbote/graphloader/internal/platform/logger"
)

const (
	studyLabel   = "study"
	studyIDField = "clinical_study_designation"
)

type MissingTypeError struct {
	Field string
}

func (e *MissingTypeError) Error() string {
	return fmt.Sprintf("%s: no %q value, can't derive id field", ErrTypeMarkerMissing, e.Field)
}

func (e *MissingTypeError) Unwrap() error { return ErrTypeMarkerMissing }

// ResolveIDField derives the identifying field for a label.
func ResolveIDField(label string) (string, error) {
	if label == "" {
		return "", &MissingTypeError{Field: TypeField}
	}
	if label == studyLabel {
		return studyIDField, nil
	}
	return label + "_id", nil
}

// Identity is how a record's node is located in the store. Without an id
// value the whole property set is the key.
type Identity struct {
	Label   string
	IDField string
	IDValue string
	HasID   bool
}

// ResolveID looks up the record's id value. A missing or blank id field is
// not an error: HasID is false and the caller falls back to property-set
// identity.
func ResolveID(log *logger.Logger, rec Record) (Identity, error) {
	label := rec.Label()
	field, err := ResolveIDField(label)
	if err != nil {
		return Identity{}, err
	}
	id := Identity{Label: label, IDField: field}
	value := rec[field]
	if value == "" {
		if log != nil {
			log.Debug("no id value in record, using property-set identity", "label", label, "id_field", field)
		}
		return id, nil
	}
	id.IDValue = value
	id.HasID = true
	return id, nil
}

// Match returns the criteria that locate this identity's node given the
// record's property set.
func (id Identity) Match(props map[string]string) NodeMatch {
	if id.HasID {
		return NodeMatch{Label: id.Label, Properties: map[string]string{id.IDField: id.IDValue}}
	}
	return NodeMatch{Label: id.Label, Properties: id.fallbackProperties(props)}
}

// fallbackProperties drops the blank id column so it does not become part
// of the property-set key.
func (id Identity) fallbackProperties(props map[string]string) map[string]string {
	if _, ok := props[id.IDField]; !ok {
		return props
	}
	out := make(map[string]string, len(props))
	for k, v := range props {
		if k != id.IDField {
			out[k] = v
		}
	}
	return out
}
