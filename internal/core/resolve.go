package core

// ResolveName returns the name of the first customer whose id loosely
// equals id. ok is false when no customer matches.
func ResolveName(customers []Customer, id ID) (name string, ok bool) {
	for _, c := range customers {
		if c.ID.Equal(id) {
			return c.Name, true
		}
	}
	return "", false
}

// NameIndex is a precomputed ResolveName. It is built once per dataset and
// keeps the first name seen for each canonical id.
type NameIndex struct {
	names map[string]string
}

func NewNameIndex(customers []Customer) NameIndex {
	names := make(map[string]string, len(customers))
	for _, c := range customers {
		if c.ID.IsNaN() {
			continue
		}
		if _, dup := names[c.ID.Key()]; dup {
			continue
		}
		names[c.ID.Key()] = c.Name
	}
	return NameIndex{names: names}
}

// Lookup behaves exactly like ResolveName over the indexed customers.
func (ix NameIndex) Lookup(id ID) (string, bool) {
	if id.IsNaN() {
		return "", false
	}
	name, ok := ix.names[id.Key()]
	return name, ok
}

// Len returns the number of distinct customer ids indexed.
func (ix NameIndex) Len() int { return len(ix.names) }
