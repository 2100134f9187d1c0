package ecs

import "github.com/plus3/flexscene/sov"

// StorageStats is a snapshot of the storage's size.
type StorageStats struct {
	TotalEntityCount    int
	InactiveEntityCount int
	ArchetypeCount      int
	TombstoneCount      int
	SingletonCount      int
	SingletonTypes      []string
	ArchetypeBreakdown  []ArchetypeStats
}

// ArchetypeStats describes one archetype.
type ArchetypeStats struct {
	Layout         Layout
	ComponentTypes []string
	EntityCount    int
	Tombstones     int
	Bytes          uintptr
	// PackedBytes is the size of one aligned block holding only the live rows.
	PackedBytes uintptr
}

// CollectStats walks the storage and reports entity, archetype and
// singleton counts. Archetypes left with no live entities, such as the
// intermediate layouts an entity passes through while being spawned, are
// counted but omitted from the breakdown.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		TotalEntityCount:    s.Len(),
		InactiveEntityCount: s.directory.inactive,
		SingletonCount:      len(s.singletons),
		SingletonTypes:      s.singletonTypes(),
		ArchetypeCount:      len(s.order),
	}

	for _, a := range s.order {
		stats.TombstoneCount += a.inactive
		if a.Live() == 0 {
			continue
		}

		names := make([]string, 0, a.layout.Count())
		for _, t := range a.Types() {
			names = append(names, t.String())
		}
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			Layout:         a.layout,
			ComponentTypes: names,
			EntityCount:    a.Live(),
			Tombstones:     a.inactive,
			Bytes:          a.footprint(),
			PackedBytes:    a.packedFootprint(),
		})
	}
	return stats
}

func (a *Archetype) packedFootprint() uintptr {
	_, size := sov.Plan(a.Types(), a.Live())
	return size
}
