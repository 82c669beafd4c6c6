package timing

// Summary aggregates a set of simulation results
type Summary struct {
	Count  int
	Bands  map[string]int
	MinMs  int
	MaxMs  int
	MeanMs float64
}

// Summarise returns the band counts and delay statistics for results
func Summarise(results []*Result) Summary {
	s := Summary{Bands: map[string]int{}}

	total := 0
	for _, r := range results {
		if r == nil {
			continue
		}

		if s.Count == 0 || r.RequestedMs < s.MinMs {
			s.MinMs = r.RequestedMs
		}

		if r.RequestedMs > s.MaxMs {
			s.MaxMs = r.RequestedMs
		}

		s.Count++
		s.Bands[r.Band.Label]++
		total += r.RequestedMs
	}

	if s.Count > 0 {
		s.MeanMs = float64(total) / float64(s.Count)
	}

	return s
}
