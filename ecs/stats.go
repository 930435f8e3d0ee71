package ecs

// UniverseStats is a snapshot of a universe's storage.
type UniverseStats struct {
	State          string
	LiveGuids      int
	EntityCount    int
	ComponentCount int
	SystemCount    int
	LayerCount     int
	SlotCapacity   int
	Providers      []ProviderStats
}

// ProviderStats describes the storage of one component type.
type ProviderStats struct {
	Type       string
	Components int
	Layers     int
	Capacity   int
}

// Utilization returns the fraction of slots holding a live component.
func (s ProviderStats) Utilization() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Components) / float64(s.Capacity)
}

// CollectStats gathers statistics about the universe's providers, in
// registration order.
func (u *Universe) CollectStats() UniverseStats {
	stats := UniverseStats{
		State:       u.state.String(),
		LiveGuids:   u.guids.len(),
		SystemCount: u.SystemCount(),
		Providers:   make([]ProviderStats, 0, len(u.providers)),
	}

	for _, p := range u.providers {
		ps := ProviderStats{
			Type:       p.Type().String(),
			Components: p.Len(),
			Layers:     p.Layers(),
			Capacity:   p.Cap(),
		}
		stats.ComponentCount += ps.Components
		stats.LayerCount += ps.Layers
		stats.SlotCapacity += ps.Capacity
		stats.Providers = append(stats.Providers, ps)
	}

	stats.EntityCount = u.guids.count(kindEntity)
	return stats
}

// EntityCount returns the number of live entities.
func (u *Universe) EntityCount() int {
	return u.guids.count(kindEntity)
}
