package raster

import "github.com/chewxy/math32"

func cosTable(i, n int) float32 {
	return math32.Cos(2 * math32.Pi * float32(i) / float32(n))
}

func sinTable(i, n int) float32 {
	return math32.Sin(2 * math32.Pi * float32(i) / float32(n))
}
