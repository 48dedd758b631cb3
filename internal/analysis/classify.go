package analysis

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/KaramelBytes/efindex-cli/internal/display"
)

// Classification is a freedom band derived from the overall score.
type Classification int

const (
	Free Classification = iota
	MostlyFree
	ModeratelyFree
	MostlyUnfree
	Repressed
)

// Lower bounds of the bands; a score equal to a bound belongs to the higher band.
const (
	FreeThreshold           = 80.0
	MostlyFreeThreshold     = 70.0
	ModeratelyFreeThreshold = 60.0
	MostlyUnfreeThreshold   = 50.0
)

// Classifications lists the bands from most to least free.
var Classifications = []Classification{Free, MostlyFree, ModeratelyFree, MostlyUnfree, Repressed}

var classificationNames = map[Classification]string{
	Free:           "Free",
	MostlyFree:     "Mostly Free",
	ModeratelyFree: "Moderately Free",
	MostlyUnfree:   "Mostly Unfree",
	Repressed:      "Repressed",
}

var classificationColors = map[Classification]string{
	Free:           "#2ecc71",
	MostlyFree:     "#f1c40f",
	ModeratelyFree: "#e67e22",
	MostlyUnfree:   "#e74c3c",
	Repressed:      "#c0392b",
}

func (c Classification) String() string {
	if n, ok := classificationNames[c]; ok {
		return n
	}
	return "Unknown"
}

// Color is the display color of the band.
func (c Classification) Color() string {
	if col, ok := classificationColors[c]; ok {
		return col
	}
	return "#95a5a6"
}

// MarshalText encodes the band by its display name.
func (c Classification) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Classify maps a score onto its band. NaN falls into Repressed.
func Classify(score float64) Classification {
	switch {
	case score >= FreeThreshold:
		return Free
	case score >= MostlyFreeThreshold:
		return MostlyFree
	case score >= ModeratelyFreeThreshold:
		return ModeratelyFree
	case score >= MostlyUnfreeThreshold:
		return MostlyUnfree
	default:
		return Repressed
	}
}

// Label is the band name of score, or N/A when the score is missing.
func Label(score float64) string {
	if math.IsNaN(score) {
		return display.NA
	}
	return Classify(score).String()
}

// BandCount is the number of countries in one band.
type BandCount struct {
	Class Classification
	Count int
}

// ClassificationCounts counts rows per band, in band order. Bands without
// countries are reported with a zero count; rows without a score are not
// counted. A table without the score column fails with ErrColumnNotFound.
func ClassificationCounts(t *dataset.Table) ([]BandCount, error) {
	scores, err := t.Float(dataset.Score)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	counts := make(map[Classification]int, len(Classifications))
	for _, s := range scores {
		if math.IsNaN(s) {
			continue
		}
		counts[Classify(s)]++
	}
	out := make([]BandCount, len(Classifications))
	for i, c := range Classifications {
		out[i] = BandCount{Class: c, Count: counts[c]}
	}
	return out, nil
}
