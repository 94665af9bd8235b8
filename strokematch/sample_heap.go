package strokematch

// SampleRef locates a single sample inside ScoreResult
type SampleRef struct {
	Stroke   int     `json:"stroke"`
	Index    int     `json:"index"`
	Point    Point   `json:"point"`
	Distance float64 `json:"distance"`
}

// Copied from container/heap - https://golang.org/pkg/container/heap/
// Why make copy? Just want to avoid type conversion

// sampleHeap is a max-heap: sample with the largest distance is on top
type sampleHeap []SampleRef

func (h sampleHeap) Len() int           { return len(h) }
func (h sampleHeap) Less(i, j int) bool { return h[i].Distance > h[j].Distance }
func (h sampleHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

// Push pushes the element x onto the heap.
// The complexity is O(log n) where n = h.Len().
func (h *sampleHeap) Push(x SampleRef) {
	*h = append(*h, x)
	h.up(h.Len() - 1)
}

// Pop removes and returns the maximum element (according to Less) from the heap.
// The complexity is O(log n) where n = h.Len().
func (h *sampleHeap) Pop() SampleRef {
	n := h.Len() - 1
	h.Swap(0, n)
	h.down(0, n)
	heapSize := len(*h)
	lastNode := (*h)[heapSize-1]
	*h = (*h)[0 : heapSize-1]
	return lastNode
}

func (h sampleHeap) up(j int) {
	for {
		i := (j - 1) / 2
		if i == j || !h.Less(j, i) {
			break
		}
		h.Swap(i, j)
		j = i
	}
}

func (h sampleHeap) down(i0, n int) bool {
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 {
			break
		}
		j := j1
		if j2 := j1 + 1; j2 < n && h.Less(j2, j1) {
			j = j2
		}
		if !h.Less(j, i) {
			break
		}
		h.Swap(i, j)
		i = j
	}
	return i > i0
}

// WorstSamples returns up to k samples with the largest distances, worst first.
// Order among equal distances is unspecified
func (result *ScoreResult) WorstSamples(k int) []SampleRef {
	if k <= 0 {
		return []SampleRef{}
	}
	priorityQueue := make(sampleHeap, 0)
	for s, stroke := range result.Strokes {
		for i, sample := range stroke.Samples {
			priorityQueue.Push(SampleRef{
				Stroke:   s,
				Index:    i,
				Point:    sample.Point,
				Distance: sample.Distance,
			})
		}
	}
	worst := make([]SampleRef, 0, minInt(k, priorityQueue.Len()))
	for priorityQueue.Len() > 0 && len(worst) < k {
		worst = append(worst, priorityQueue.Pop())
	}
	return worst
}
