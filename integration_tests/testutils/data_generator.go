package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s)), seed: s}
}

func (g *TestDataGenerator) Seed() int64 { return g.seed }

// UserIDs returns count distinct user ids.
func (g *TestDataGenerator) UserIDs(count int) []string {
	seen := make(map[string]struct{}, count)
	out := make([]string, 0, count)
	for len(out) < count {
		id := g.faker.Username() + "-" + g.faker.Numerify("####")
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (g *TestDataGenerator) GameName() string {
	return g.faker.Adjective() + " " + g.faker.Animal() + " league"
}

// Weight returns a starting weight between 60 and 120 kg with gram precision.
func (g *TestDataGenerator) Weight() decimal.Decimal {
	return decimal.NewFromFloat(g.faker.Float64Range(60, 120)).Round(3)
}
