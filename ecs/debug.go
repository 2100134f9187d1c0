package ecs

import "fmt"

// verify checks the store's bookkeeping after a mutation. It is compiled
// to nothing unless the ecsdebug build tag is set.
func (s *Storage) verify() {
	if !debugChecks {
		return
	}
	if err := s.CheckInvariants(); err != nil {
		panic(err)
	}
}

// CheckInvariants walks every archetype and the directory and returns the
// first inconsistency found.
func (s *Storage) CheckInvariants() error {
	inactive := 0
	for i, loc := range s.directory.entries {
		if !loc.active {
			inactive++
			continue
		}
		a, ok := s.archetypes.Get(loc.layout)
		if !ok {
			return fmt.Errorf("ecs: entity %d points at missing layout %s", i, loc.layout)
		}
		if id, live := a.EntityAt(loc.index); !live || id != EntityId(i) {
			return fmt.Errorf("ecs: entity %d points at slot %d of %s which does not hold it", i, loc.index, loc.layout)
		}
	}
	if inactive != s.directory.inactive {
		return fmt.Errorf("ecs: directory inactive count %d, found %d", s.directory.inactive, inactive)
	}

	for _, a := range s.order {
		dead := 0
		for i, sl := range a.ids {
			if !sl.live {
				dead++
				continue
			}
			loc := s.directory.entries[sl.id]
			if !loc.active || loc.layout != a.layout || loc.index != i {
				return fmt.Errorf("ecs: slot %d of %s holds entity %d which lives elsewhere", i, a.layout, sl.id)
			}
		}
		if dead != a.inactive {
			return fmt.Errorf("ecs: archetype %s inactive count %d, found %d", a.layout, a.inactive, dead)
		}
		for ti, storage := range a.storages {
			if (storage != nil) != a.layout.Has(ti) {
				return fmt.Errorf("ecs: archetype %s column %d presence does not match layout", a.layout, ti)
			}
			if storage != nil && storage.len() != len(a.ids) {
				return fmt.Errorf("ecs: archetype %s column %d has %d rows for %d slots", a.layout, ti, storage.len(), len(a.ids))
			}
		}
	}
	return nil
}
