package detect

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genBody assembles bodies from a shared vocabulary so generated pairs
// land on every side of the thresholds
func genBody() gopter.Gen {
	words := []string{
		"use", "prefer", "avoid", "const", "let", "tabs", "spaces",
		"semicolons", "interfaces", "composition", "indentation",
		"always", "never", "functions", "components",
	}
	return gen.SliceOf(gen.IntRange(0, len(words)-1)).Map(func(indexes []int) string {
		var parts []string
		for _, i := range indexes {
			parts = append(parts, words[i])
		}
		return strings.Join(parts, " ")
	})
}

func TestProperty_SimilaritySymmetryAndBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("similarity is symmetric and within [0,1]", prop.ForAll(
		func(a, b string) bool {
			ab := Similarity(a, b)
			ba := Similarity(b, a)
			return ab == ba && ab >= 0.0 && ab <= 1.0
		},
		genBody(),
		genBody(),
	))

	properties.Property("similarity with itself is 1", prop.ForAll(
		func(a string) bool {
			return Similarity(a, a) == 1.0
		},
		genBody(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_LineOverlapBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("line overlap is symmetric and within [0,1]", prop.ForAll(
		func(a, b string) bool {
			ab := LineOverlap(a, b)
			ba := LineOverlap(b, a)
			return ab == ba && ab >= 0.0 && ab <= 1.0
		},
		genBody(),
		genBody(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
