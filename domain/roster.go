package domain

// Roster is the durable list of identities considered connected.
// It is a multiset: two connections sharing one identity produce two
// entries, and a disconnect removes exactly one occurrence.
type Roster struct {
	identities []string
}

func NewRoster(preloaded []string) *Roster {
	return &Roster{identities: preloaded}
}

func (r *Roster) Add(identity string) {
	r.identities = append(r.identities, identity)
}

// RemoveOne removes the first occurrence of identity, leaving any
// duplicate entries in place. Removing an absent identity is a no-op.
func (r *Roster) RemoveOne(identity string) bool {
	for i, id := range r.identities {
		if id == identity {
			r.identities = append(r.identities[:i], r.identities[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Roster) Count() int {
	return len(r.identities)
}

func (r *Roster) Identities() []string {
	out := make([]string, len(r.identities))
	copy(out, r.identities)
	return out
}
