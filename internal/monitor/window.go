package monitor

// window is a fixed-capacity rolling sample buffer, oldest evicted first.
// Not safe for concurrent use; Metrics serializes access.
type window struct {
	samples []float64
	cap     int
}

func newWindow(capacity int) *window {
	return &window{cap: capacity}
}

func (w *window) push(v float64) {
	w.samples = append(w.samples, v)
	if len(w.samples) > w.cap {
		w.samples = w.samples[1:]
	}
}

func (w *window) len() int {
	return len(w.samples)
}

func (w *window) mean() float64 {
	if len(w.samples) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range w.samples {
		sum += v
	}

	return sum / float64(len(w.samples))
}

// meanTail averages the most recent n samples.
func (w *window) meanTail(n int) float64 {
	if len(w.samples) == 0 {
		return 0
	}
	if n > len(w.samples) {
		n = len(w.samples)
	}

	sum := 0.0
	for _, v := range w.samples[len(w.samples)-n:] {
		sum += v
	}

	return sum / float64(n)
}

func (w *window) summary() WindowSummary {
	if len(w.samples) == 0 {
		return WindowSummary{}
	}

	s := WindowSummary{
		Current: w.samples[len(w.samples)-1],
		Min:     w.samples[0],
		Max:     w.samples[0],
		Count:   len(w.samples),
	}

	sum := 0.0
	for _, v := range w.samples {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Average = sum / float64(len(w.samples))

	return s
}
