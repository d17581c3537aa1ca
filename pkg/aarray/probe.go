package aarray

// ProbeStrategy selects how collisions are resolved.
type ProbeStrategy uint8

const (
	// ProbeLinear visits start+1, start+2, ... (mod capacity). The default.
	ProbeLinear ProbeStrategy = iota
	// ProbeQuadratic visits start+1², start+2², ... (mod capacity).
	ProbeQuadratic
	// ProbeDouble visits start + a*step (mod capacity) for a = 0, 1, 2, ...
	// where step is the secondary hash of the key.
	//
	// Full coverage of the table is only guaranteed when step and capacity
	// are coprime. Choosing a secondary hash that satisfies this is the
	// caller's responsibility; a step of 0 exhausts immediately.
	ProbeDouble

	numProbeStrategies
)

var probeNames = [numProbeStrategies]string{
	ProbeLinear:    "linear",
	ProbeQuadratic: "quadratic",
	ProbeDouble:    "double",
}

func (p ProbeStrategy) String() string {
	if p >= numProbeStrategies {
		return "invalid"
	}

	return probeNames[p]
}

// ProbeStrategies lists every probe strategy in declaration order.
func ProbeStrategies() []ProbeStrategy {
	out := make([]ProbeStrategy, 0, numProbeStrategies)
	for p := range numProbeStrategies {
		out = append(out, p)
	}

	return out
}

// Probe walks the probe sequence for key starting after start and returns
// the first accepted candidate.
//
// A candidate is accepted when its slot is Empty or holds key. Deleted slots
// are walked through, unless stopOnTombstone is set, in which case the first
// Deleted candidate is returned. Each candidate examined adds 1 to *cost.
//
// The walk is bounded to view.Cap() attempts; (-1, false) means exhausted.
func (p ProbeStrategy) Probe(view SlotView, key []byte, start int, stopOnTombstone bool, cost *int) (int, bool) {
	capacity := view.Cap()
	if capacity <= 0 {
		return -1, false
	}

	switch p {
	case ProbeQuadratic:
		base := uint64(start)
		for attempt := uint64(1); attempt <= uint64(capacity); attempt++ {
			idx := int((base + attempt*attempt) % uint64(capacity))
			if accept(view, key, idx, stopOnTombstone, cost) {
				return idx, true
			}
		}

	case ProbeDouble:
		step := uint64(view.SecondaryHash().Index(key, capacity))
		if step == 0 {
			return -1, false
		}

		base := uint64(start)
		for attempt := range uint64(capacity) {
			idx := int((base + attempt*step) % uint64(capacity))
			if accept(view, key, idx, stopOnTombstone, cost) {
				return idx, true
			}
		}

	default:
		idx := start
		for range capacity {
			idx = (idx + 1) % capacity
			if accept(view, key, idx, stopOnTombstone, cost) {
				return idx, true
			}
		}
	}

	return -1, false
}

func accept(view SlotView, key []byte, idx int, stopOnTombstone bool, cost *int) bool {
	if cost != nil {
		*cost++
	}

	switch view.SlotState(idx) {
	case Empty:
		return true
	case Used:
		return view.SlotMatches(idx, key)
	case Deleted:
		return stopOnTombstone
	default:
		return false
	}
}
