package lattice

// Element carries the reference data needed to build a crystal.
type Element struct {
	Symbol   string
	Number   int
	Mass     float64 // amu
	Constant float64 // cubic lattice constant, Å
}

var elements = map[string]Element{
	"Ne": {Symbol: "Ne", Number: 10, Mass: 20.1797, Constant: 4.43},
	"Al": {Symbol: "Al", Number: 13, Mass: 26.9815385, Constant: 4.05},
	"Ar": {Symbol: "Ar", Number: 18, Mass: 39.948, Constant: 5.26},
	"Ni": {Symbol: "Ni", Number: 28, Mass: 58.6934, Constant: 3.52},
	"Cu": {Symbol: "Cu", Number: 29, Mass: 63.546, Constant: 3.61},
	"Kr": {Symbol: "Kr", Number: 36, Mass: 83.798, Constant: 5.72},
	"Pd": {Symbol: "Pd", Number: 46, Mass: 106.42, Constant: 3.89},
	"Ag": {Symbol: "Ag", Number: 47, Mass: 107.8682, Constant: 4.09},
	"Xe": {Symbol: "Xe", Number: 54, Mass: 131.293, Constant: 6.20},
	"Pt": {Symbol: "Pt", Number: 78, Mass: 195.084, Constant: 3.92},
	"Au": {Symbol: "Au", Number: 79, Mass: 196.966569, Constant: 4.08},
}

// Lookup returns the reference data for an element symbol.
func Lookup(symbol string) (Element, bool) {
	e, ok := elements[symbol]
	return e, ok
}
