package ecs

// record is the slot payload of a provider's pool. A record is live while
// its component's guid is non-zero.
type record[C any, P componentPtr[C]] struct {
	value C
}

func (r *record[C, P]) component() *Component {
	return P(&r.value).base()
}

func (r *record[C, P]) Live() bool {
	return r.component().guid != 0
}

// Clean tears the component down in reverse order of construction: the
// Release hook runs first, then the guid goes back to the universe, and the
// slot is zeroed last.
func (r *record[C, P]) Clean() {
	c := r.component()
	if c.guid != 0 {
		if rel, ok := any(&r.value).(Releaser); ok {
			rel.Release()
		}
		if w := c.owner.world; w != nil {
			w.guids.release(c.guid, kindComponent)
		}
	}
	*r = record[C, P]{}
}
