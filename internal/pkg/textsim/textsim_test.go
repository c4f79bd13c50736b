package textsim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWordSet_FiltersShortWords(t *testing.T) {
	set := WordSet("The plot was so good and the acting superb")

	require.Contains(t, set, "plot")
	require.Contains(t, set, "good")
	require.Contains(t, set, "acting")
	require.Contains(t, set, "superb")
	require.NotContains(t, set, "the")
	require.NotContains(t, set, "was")
	require.NotContains(t, set, "and")
}

func TestWordSet_StripsPunctuation(t *testing.T) {
	set := WordSet("Amazing! Truly amazing, (really).")

	require.Contains(t, set, "amazing")
	require.Contains(t, set, "truly")
	require.Contains(t, set, "really")
	require.Len(t, set, 3)
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"identical", "great movie with wonderful characters", "great movie with wonderful characters", 1.0, 1.0},
		{"disjoint", "terrible boring plot", "excellent stunning visuals", 0.0, 0.0},
		{"both empty", "", "", 0.0, 0.0},
		{"trivial rewording", "this movie has amazing cinematography stunning visuals incredible acting", "movie amazing cinematography stunning visuals incredible acting overall", 0.7, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := Jaccard(tt.a, tt.b)
			require.GreaterOrEqual(t, sim, tt.min)
			require.LessOrEqual(t, sim, tt.max)
		})
	}
}
