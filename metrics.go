package owned

// LiveSlots returns the number of slots currently occupied by live boxes
// and control blocks. A non-zero value after all handles should have been
// dropped indicates a leak, usually a strong reference cycle.
func (h *Heap) LiveSlots() int {
	return h.live
}

// TotalSlots returns the total slot capacity of all grown chunks.
func (h *Heap) TotalSlots() int {
	return len(h.chunks) * h.slotChunk
}

// NumChunks returns the number of slot chunks currently grown.
func (h *Heap) NumChunks() int {
	return len(h.chunks)
}

// SlotChunkSize returns the number of slots added per growth step.
func (h *Heap) SlotChunkSize() int {
	return h.slotChunk
}

// Capacity returns the configured live-slot cap, or 0 if unlimited.
func (h *Heap) Capacity() int {
	return h.capacity
}

// Utilization returns the ratio of live slots to total slots (0.0 to 1.0).
// Returns 0.0 if no chunks are grown.
func (h *Heap) Utilization() float64 {
	total := h.TotalSlots()
	if total == 0 {
		return 0
	}
	return float64(h.live) / float64(total)
}

// Metrics returns a snapshot of heap statistics.
func (h *Heap) Metrics() HeapMetrics {
	return HeapMetrics{
		LiveSlots:     h.live,
		TotalSlots:    h.TotalSlots(),
		NumChunks:     h.NumChunks(),
		SlotChunkSize: h.slotChunk,
		Capacity:      h.capacity,
		Utilization:   h.Utilization(),
		Allocs:        h.allocs,
		Frees:         h.frees,
		Finalizes:     h.finalizes,
		Clones:        h.clones,
		Downgrades:    h.downgrades,
		Upgrades:      h.upgrades,
		UpgradeMisses: h.upgradeMisses,
	}
}

// HeapMetrics contains statistical information about a heap.
type HeapMetrics struct {
	LiveSlots     int     // Slots currently occupied
	TotalSlots    int     // Total slot capacity of grown chunks
	NumChunks     int     // Number of slot chunks
	SlotChunkSize int     // Slots per chunk
	Capacity      int     // Configured live-slot cap (0 = unlimited)
	Utilization   float64 // Ratio of live to total slots (0.0-1.0)

	Allocs        uint64 // Slot allocations since creation
	Frees         uint64 // Slot frees since creation
	Finalizes     uint64 // Payload teardowns since creation
	Clones        uint64 // Rc clones since creation
	Downgrades    uint64 // Weak handles created since creation
	Upgrades      uint64 // Successful weak upgrades
	UpgradeMisses uint64 // Upgrades that found a dead payload
}
