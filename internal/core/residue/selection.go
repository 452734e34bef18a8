package residue

// Selection is an immutable set of residue IDs. Members keep their insertion
// order so serialization is stable; set semantics ignore order. The zero
// value is an empty selection.
//
// Every edit returns a new Selection and leaves the receiver untouched, so a
// Selection can be handed between owners without copying.
type Selection struct {
	ids   []ID
	index map[ID]struct{}
}

// NewSelection builds a selection from ids, skipping invalid IDs and
// duplicates.
func NewSelection(ids ...ID) Selection {
	seen := make(map[ID]struct{}, len(ids))
	unique := make([]ID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || !id.IsValid() {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return Selection{}.with(unique...)
}

// SelectionFromStrings parses canonical residue strings. Malformed strings and
// duplicates are dropped silently.
func SelectionFromStrings(values []string) Selection {
	ids := make([]ID, 0, len(values))
	for _, v := range values {
		if id, ok := Parse(v); ok {
			ids = append(ids, id)
		}
	}
	return NewSelection(ids...)
}

// Contains reports whether id is a member.
func (s Selection) Contains(id ID) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of members.
func (s Selection) Len() int {
	return len(s.ids)
}

// IDs returns the members in insertion order.
func (s Selection) IDs() []ID {
	out := make([]ID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Strings returns the members in canonical string form, in insertion order.
func (s Selection) Strings() []string {
	out := make([]string, len(s.ids))
	for i, id := range s.ids {
		out[i] = id.String()
	}
	return out
}

// ForChain returns the members that belong to chain, in insertion order.
func (s Selection) ForChain(chain string) []ID {
	var out []ID
	for _, id := range s.ids {
		if id.Chain == chain {
			out = append(out, id)
		}
	}
	return out
}

// Toggle removes id when present and adds it otherwise.
func (s Selection) Toggle(id ID) Selection {
	if !id.IsValid() {
		return s
	}
	if s.Contains(id) {
		return s.without(id)
	}
	return s.with(id)
}

// AddRange adds every residue of chain numbered lo through hi inclusive that
// is not already a member. Existing members are never removed. Bounds are
// swapped when lo > hi.
func (s Selection) AddRange(chain string, lo, hi int) Selection {
	if lo > hi {
		lo, hi = hi, lo
	}
	// Residue numbers start at 1.
	lo = max(lo, 1)
	if hi < lo || !isLetters(chain) {
		return s
	}

	var added []ID
	for n := lo; ; n++ {
		if id, ok := New(chain, n); ok && !s.Contains(id) {
			added = append(added, id)
		}
		// n == hi ends the loop before n++ can overflow at math.MaxInt.
		if n == hi {
			break
		}
	}
	if len(added) == 0 {
		return s
	}
	return s.with(added...)
}

// Equal reports whether s and other hold the same members, ignoring order.
func (s Selection) Equal(other Selection) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, id := range s.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// with returns a copy of s extended by added, which must not contain members
// of s.
func (s Selection) with(added ...ID) Selection {
	ids := make([]ID, len(s.ids), len(s.ids)+len(added))
	copy(ids, s.ids)
	ids = append(ids, added...)

	index := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		index[id] = struct{}{}
	}

	return Selection{ids: ids, index: index}
}

func (s Selection) without(id ID) Selection {
	ids := make([]ID, 0, len(s.ids))
	index := make(map[ID]struct{}, len(s.ids))
	for _, existing := range s.ids {
		if existing == id {
			continue
		}
		ids = append(ids, existing)
		index[existing] = struct{}{}
	}
	return Selection{ids: ids, index: index}
}
