package bounds

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/hypflow/grid"
)

func BenchmarkRefresh(b *testing.B) {
	g, err := grid.New1D(256, 3, true)
	if err != nil {
		b.Fatal(err)
	}
	s, err := New(g)
	if err != nil {
		b.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))
	u := make([]float64, g.NumDofs())
	for i := range u {
		u[i] = rng.Float64()
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Refresh(u); err != nil {
			b.Fatal(err)
		}
	}
}
