// Package strip removes source-position metadata from syntax trees so that
// serialized trees stay stable when the source text is reformatted.
package strip

import (
	"sort"

	"github.com/spicery/jsast/pkg/common"
)

// KeySet is an immutable set of mapping keys to remove.
type KeySet struct {
	keys map[string]struct{}
}

// LocationKeys are the keys a parser uses for source positions.
var LocationKeys = NewKeySet("loc", "start", "end", "parenStart")

func NewKeySet(keys ...string) KeySet {
	set := KeySet{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		set.keys[k] = struct{}{}
	}
	return set
}

func (s KeySet) Contains(key string) bool {
	_, ok := s.keys[key]
	return ok
}

func (s KeySet) Len() int {
	return len(s.keys)
}

// Keys returns the members in sorted order.
func (s KeySet) Keys() []string {
	keys := make([]string, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Strip returns a copy of v with every key in keys removed from every
// mapping at any depth. Primitives and nulls are returned as they are; the
// argument is never modified.
func Strip(v common.Value, keys KeySet) common.Value {
	switch x := v.(type) {
	case nil:
		return common.Null{}
	case *common.Mapping:
		return Mapping(x, keys)
	case common.Sequence:
		return sequence(x, keys)
	default:
		return x
	}
}

// Mapping strips a single node.
func Mapping(m *common.Mapping, keys KeySet) *common.Mapping {
	if m == nil {
		return common.NewMapping()
	}
	out := &common.Mapping{Fields: make([]common.Field, 0, m.Len())}
	for _, f := range m.Fields {
		if keys.Contains(f.Key) {
			continue
		}
		out.Fields = append(out.Fields, common.Field{Key: f.Key, Value: Strip(f.Value, keys)})
	}
	return out
}

func sequence(seq common.Sequence, keys KeySet) common.Sequence {
	out := make(common.Sequence, len(seq))
	for i, e := range seq {
		out[i] = Strip(e, keys)
	}
	return out
}
