package gesture

import (
	"encoding/json"
	"fmt"
)

// Trainer processes recorded samples into gesture patterns.
type Trainer struct {
	table *SectorTable
}

// NewTrainer creates a new Trainer using the shared sector table.
func NewTrainer() *Trainer {
	return &Trainer{table: DefaultSectorTable}
}

// Sample represents one recorded attempt at a gesture.
type Sample struct {
	Points    []Point `json:"points"`
	Timestamp int64   `json:"timestamp"`
}

// TrainResult is the outcome of TrainPattern.
type TrainResult struct {
	Pattern        Pattern   // Collapsed path of the most representative sample
	SuggestedFudge float64   // Smallest fudge factor that matches every sample
	Paths          []Pattern // Raw quantized path per sample
}

// PathFromPoints quantizes consecutive points into directions, one per
// move after the first point.
func (t *Trainer) PathFromPoints(points []Point) Pattern {
	if len(points) < 2 {
		return Pattern{}
	}
	path := make(Pattern, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		dx, dy := Delta(points[i-1], points[i])
		path = append(path, t.table.Quantize(dx, dy))
	}
	return path
}

// TrainPattern picks the sample whose collapsed path is closest to all the
// others (the medoid) as the pattern. The suggested fudge factor is one more
// than the worst score any raw sample path gets against that pattern.
func (t *Trainer) TrainPattern(samples []json.RawMessage) (*TrainResult, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples provided")
	}

	paths := make([]Pattern, 0, len(samples))
	for i, raw := range samples {
		var sample Sample
		if err := json.Unmarshal(raw, &sample); err != nil {
			return nil, fmt.Errorf("failed to parse sample %d: %w", i, err)
		}

		if len(sample.Points) < 2 {
			return nil, fmt.Errorf("sample %d has insufficient points", i)
		}

		paths = append(paths, t.PathFromPoints(sample.Points))
	}

	candidates := make([]Pattern, len(paths))
	for i, p := range paths {
		candidates[i] = p.Collapse()
	}

	best, bestTotal := 0, -1
	for i, c := range candidates {
		total := 0
		for j, p := range paths {
			if i != j {
				total += Score(p, c)
			}
		}
		if bestTotal < 0 || total < bestTotal {
			best, bestTotal = i, total
		}
	}

	pattern := candidates[best]
	worst := 0
	for _, p := range paths {
		if s := Score(p, pattern); s > worst {
			worst = s
		}
	}

	return &TrainResult{
		Pattern:        pattern,
		SuggestedFudge: float64(worst + 1),
		Paths:          paths,
	}, nil
}
