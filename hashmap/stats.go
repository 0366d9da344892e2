package hashmap

import (
	"fmt"

	"github.com/pavanmanishd/memkit/internal/rawmem"
)

// Stats is a snapshot of a map's occupancy and probe lengths.
type Stats struct {
	Size       int     // Live entries
	Capacity   int     // Slots
	Tombstones int     // Erased slots not yet reclaimed
	LoadFactor float64 // (Size+Tombstones)/Capacity
	MaxProbe   int     // Longest distance of a live entry from its desired slot
	MeanProbe  float64 // Average distance of live entries from their desired slots
	Bytes      int     // Storage held by entries and their hashes
}

// Stats walks the table and returns a snapshot of its statistics.
func (m *Map[K, V]) Stats() Stats {
	s := Stats{
		Size:       int(m.size),
		Capacity:   int(m.capacity),
		Tombstones: int(m.tombstones),
		Bytes:      int(m.capacity) * (rawmem.ElemSize[entry[K, V]]() + 4),
	}
	if m.capacity == 0 {
		return s
	}
	s.LoadFactor = float64(m.size+m.tombstones) / float64(m.capacity)

	var total uint64
	for pos, h := range m.hashes {
		if !isAlive(h) {
			continue
		}
		d := int(m.probeDistance(h, uint32(pos)))
		total += uint64(d)
		if d > s.MaxProbe {
			s.MaxProbe = d
		}
	}
	if m.size > 0 {
		s.MeanProbe = float64(total) / float64(m.size)
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"HashMap{size: %d, capacity: %d, tombstones: %d, load: %.1f%%, max probe: %d, mean probe: %.2f}",
		s.Size, s.Capacity, s.Tombstones, s.LoadFactor*100, s.MaxProbe, s.MeanProbe,
	)
}
