package compute

import (
	"fmt"
	"math"

	"github.com/san-kum/mdsim/internal/dynamo"
)

// minCellsPerWorker keeps goroutine overhead below the cost of the search.
const minCellsPerWorker = 8

// CellListBackend bins atoms into cells at least one cutoff wide and only
// compares atoms in adjacent cells. It requires a fully periodic box with
// three or more cells per axis so the 27 neighbour cells are distinct.
type CellListBackend struct {
	minChunk int
}

func NewCellListBackend() *CellListBackend {
	return &CellListBackend{minChunk: minCellsPerWorker}
}

func (c *CellListBackend) Name() string { return Cells }

func (c *CellListBackend) Supports(box [3]float64, pbc [3]bool, cutoff float64) bool {
	if checkGeometry(box, pbc, cutoff) != nil {
		return false
	}
	for k := 0; k < 3; k++ {
		if !pbc[k] || int(box[k]/cutoff) < 3 {
			return false
		}
	}
	return true
}

func (c *CellListBackend) Pairs(pos [][3]float64, box [3]float64, pbc [3]bool, cutoff float64) ([]Pair, error) {
	if !c.Supports(box, pbc, cutoff) {
		if err := checkGeometry(box, pbc, cutoff); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: box %v too small for a cell list with cutoff %g",
			dynamo.ErrEngineFailure, box, cutoff)
	}

	var nc [3]int
	var width [3]float64
	for k := 0; k < 3; k++ {
		nc[k] = int(box[k] / cutoff)
		width[k] = box[k] / float64(nc[k])
	}
	ncells := nc[0] * nc[1] * nc[2]

	cells := make([][]int, ncells)
	for i, p := range pos {
		var idx [3]int
		for k := 0; k < 3; k++ {
			w := p[k] - box[k]*math.Floor(p[k]/box[k])
			idx[k] = int(w / width[k])
			if idx[k] >= nc[k] {
				idx[k] = nc[k] - 1
			}
		}
		ci := (idx[0]*nc[1]+idx[1])*nc[2] + idx[2]
		cells[ci] = append(cells[ci], i)
	}

	c2 := cutoff * cutoff
	workers := Workers(ncells, c.minChunk)
	local := make([][]Pair, workers)

	ParallelFor(ncells, workers, func(worker, start, end int) {
		found := make([]Pair, 0, 8*len(pos)/workers)

		for ci := start; ci < end; ci++ {
			cx := ci / (nc[1] * nc[2])
			cy := (ci / nc[2]) % nc[1]
			cz := ci % nc[2]

			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					for dz := -1; dz <= 1; dz++ {
						nx := (cx + dx + nc[0]) % nc[0]
						ny := (cy + dy + nc[1]) % nc[1]
						nz := (cz + dz + nc[2]) % nc[2]
						neighbor := cells[(nx*nc[1]+ny)*nc[2]+nz]

						for _, i := range cells[ci] {
							for _, j := range neighbor {
								if j <= i {
									continue
								}
								d := displacement(pos[i], pos[j], box, pbc)
								r2 := d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
								if r2 < c2 {
									found = append(found, Pair{I: i, J: j, D: d, R: math.Sqrt(r2)})
								}
							}
						}
					}
				}
			}
		}

		local[worker] = found
	})

	total := 0
	for _, l := range local {
		total += len(l)
	}
	pairs := make([]Pair, 0, total)
	for _, l := range local {
		pairs = append(pairs, l...)
	}

	return pairs, nil
}
