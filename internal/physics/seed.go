package physics

import (
	"math"
	"math/rand"

	perlin "github.com/aquilax/go-perlin"
)

const (
	DefaultParticles = 500
	DefaultWidth     = 800.0
	DefaultHeight    = 600.0
)

// Scatter places n particles uniformly in [0,w)x[0,h) at rest.
func Scatter(n int, b Bounds, rng *rand.Rand) Set {
	s := make(Set, n)
	for i := range s {
		s[i].Pos = Vec2{rng.Float64() * b.Width, rng.Float64() * b.Height}
	}
	return s
}

const (
	noiseAlpha  = 2.0
	noiseBeta   = 2.0
	noiseOctave = 3
	noiseScale  = 1.0 / 150.0
	minAccept   = 0.05
	maxTries    = 64
)

// PerlinScatter places n particles at rest with a clumpy density taken from
// 2D Perlin noise. Candidates are drawn uniformly and kept with a probability
// that follows the noise field, so positions still fall in [0,w)x[0,h).
func PerlinScatter(n int, b Bounds, rng *rand.Rand) Set {
	noise := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, rng.Int63())
	s := make(Set, n)
	for i := range s {
		var x, y float64
		for try := 0; try < maxTries; try++ {
			x, y = rng.Float64()*b.Width, rng.Float64()*b.Height
			accept := math.Max(minAccept, math.Min(1, (noise.Noise2D(x*noiseScale, y*noiseScale)+1)/2))
			if rng.Float64() < accept {
				break
			}
		}
		s[i].Pos = Vec2{x, y}
	}
	return s
}
