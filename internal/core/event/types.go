package event

// SectorsComputed is emitted once the connectivity pass has labelled the map.
type SectorsComputed struct {
	Sectors  int
	Walkable int // walkable tiles on the map
}

// CacheCleared is emitted when the distance-map cache was dropped by its
// eviction policy during the previous frame.
type CacheCleared struct {
	Frame   int
	Dropped int
}

// DistanceMapsWarmed is emitted after configured origins were precomputed.
type DistanceMapsWarmed struct {
	Count int
}
