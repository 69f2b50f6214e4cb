package solver

// Solution holds the integrated states at the requested output times.
type Solution struct {
	T      []float64   // output times, identical to the problem's SaveAt
	U      [][]float64 // state at each output time
	Labels []string    // state component labels, in vector order
	Steps  int         // internal steps taken
}

// Index returns the position of a labeled component, or -1 if unknown.
func (s *Solution) Index(label string) int {
	for i, l := range s.Labels {
		if l == label {
			return i
		}
	}
	return -1
}

// Series extracts the time series for a labeled component.
// Returns nil for an unknown label.
func (s *Solution) Series(label string) []float64 {
	idx := s.Index(label)
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(s.U))
	for i, u := range s.U {
		out[i] = u[idx]
	}
	return out
}

// At returns the state vector at output index i, or nil if out of range.
func (s *Solution) At(i int) []float64 {
	if i < 0 || i >= len(s.U) {
		return nil
	}
	return s.U[i]
}

// Final returns the state at the last output time, or nil if empty.
func (s *Solution) Final() []float64 {
	if len(s.U) == 0 {
		return nil
	}
	return s.U[len(s.U)-1]
}
