package compute

import "math"

type BruteForceBackend struct{}

func NewBruteForceBackend() *BruteForceBackend {
	return &BruteForceBackend{}
}

func (b *BruteForceBackend) Name() string { return Brute }

func (b *BruteForceBackend) Supports(box [3]float64, pbc [3]bool, cutoff float64) bool {
	return checkGeometry(box, pbc, cutoff) == nil
}

func (b *BruteForceBackend) Pairs(pos [][3]float64, box [3]float64, pbc [3]bool, cutoff float64) ([]Pair, error) {
	if err := checkGeometry(box, pbc, cutoff); err != nil {
		return nil, err
	}

	n := len(pos)
	c2 := cutoff * cutoff
	pairs := make([]Pair, 0, 16*n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := displacement(pos[i], pos[j], box, pbc)
			r2 := d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
			if r2 < c2 {
				pairs = append(pairs, Pair{I: i, J: j, D: d, R: math.Sqrt(r2)})
			}
		}
	}

	return pairs, nil
}
