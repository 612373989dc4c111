// Package matrix enumerates the boundary-condition test matrix.
//
// The matrix is built from a small generative rule plus a finite override
// list: the Cartesian self-product of a base token set gives the planar
// pairs, a shared exception list extends them for every axis, and a Z-only
// exception list extends the Z axis further. Enumeration order is the nested
// X, then Y, then Z loop; downstream 1-based indices printed in logs depend
// on this order being stable.
package matrix

import "fmt"

// Token identifies the boundary treatment applied at one end of one axis.
type Token string

// Default BC tokens of the solver: even symmetry, odd symmetry, unbounded.
var DefaultBaseTokens = []Token{"0", "1", "4"}

var (
	// DefaultSharedPairs are exceptional pairs valid on every axis. The
	// periodic condition "3" only makes sense on both ends of an axis at
	// once, so it never appears in the planar product.
	DefaultSharedPairs = []Pair{{Low: "3", High: "3"}}

	// DefaultZOnlyPairs are exceptional pairs reserved for the Z axis.
	// "9" marks the axis as absent, collapsing the run to a 2-D case.
	DefaultZOnlyPairs = []Pair{{Low: "9", High: "9"}}
)

// Default grid sizes. A Z-only exceptional pair forces the degenerate
// resolution with a single cell in Z.
var (
	DefaultResolution           = Resolution{8, 8, 8}
	DefaultDegenerateResolution = Resolution{8, 8, 1}
)

// Pair is an ordered (low, high) pair of BC tokens on one axis.
type Pair struct {
	Low  Token
	High Token
}

func (p Pair) String() string {
	return string(p.Low) + string(p.High)
}

// Resolution is the grid size per axis (X, Y, Z).
type Resolution [3]int

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%dx%d", r[0], r[1], r[2])
}

// Case is one solver configuration to validate: a BC pair per axis plus
// the grid resolution the solver should run at.
type Case struct {
	X, Y, Z Pair
	Res     Resolution
}

// Code returns the six-token identity code of the configuration, in
// X-low, X-high, Y-low, Y-high, Z-low, Z-high order. The code doubles as
// the lookup key for the expected-result filename.
func (c Case) Code() string {
	return c.X.String() + c.Y.String() + c.Z.String()
}

// ResultFilename returns the name of the norm file the solver writes for
// this configuration.
func (c Case) ResultFilename(greenType int) string {
	return fmt.Sprintf("validation_3d_%s_typeGreen=%d.txt", c.Code(), greenType)
}

// Spec describes how the matrix is built. The zero value is not useful;
// use Default or fill every field.
type Spec struct {
	BaseTokens  []Token
	SharedPairs []Pair // appended to the planar product on every axis
	ZOnlyPairs  []Pair // appended to the Z axis pair set only

	Res           Resolution // grid size for regular cases
	DegenerateRes Resolution // grid size when the Z pair is a Z-only exception
}

// Default returns the spec matching the solver's validation defaults.
func Default() Spec {
	return Spec{
		BaseTokens:    DefaultBaseTokens,
		SharedPairs:   DefaultSharedPairs,
		ZOnlyPairs:    DefaultZOnlyPairs,
		Res:           DefaultResolution,
		DegenerateRes: DefaultDegenerateResolution,
	}
}

// AxisPairs returns the pair set used on the X and Y axes: the Cartesian
// self-product of the base tokens in declaration order, followed by the
// shared exceptional pairs.
func (s Spec) AxisPairs() []Pair {
	pairs := make([]Pair, 0, len(s.BaseTokens)*len(s.BaseTokens)+len(s.SharedPairs))
	for _, low := range s.BaseTokens {
		for _, high := range s.BaseTokens {
			pairs = append(pairs, Pair{Low: low, High: high})
		}
	}
	return append(pairs, s.SharedPairs...)
}

// ZAxisPairs returns the pair set used on the Z axis: AxisPairs plus the
// Z-only exceptional pairs.
func (s Spec) ZAxisPairs() []Pair {
	return append(s.AxisPairs(), s.ZOnlyPairs...)
}

// Size returns the number of cases Enumerate produces.
func (s Spec) Size() int {
	m := len(s.BaseTokens)*len(s.BaseTokens) + len(s.SharedPairs)
	return m * m * (m + len(s.ZOnlyPairs))
}

// Enumerate materializes the full matrix in X, then Y, then Z order.
// The enumeration is pure: same spec, same sequence.
func (s Spec) Enumerate() []Case {
	axis := s.AxisPairs()
	zAxis := s.ZAxisPairs()

	cases := make([]Case, 0, len(axis)*len(axis)*len(zAxis))
	for _, x := range axis {
		for _, y := range axis {
			for _, z := range zAxis {
				res := s.Res
				if s.isZOnly(z) {
					res = s.DegenerateRes
				}
				cases = append(cases, Case{X: x, Y: y, Z: z, Res: res})
			}
		}
	}
	return cases
}

func (s Spec) isZOnly(p Pair) bool {
	for _, z := range s.ZOnlyPairs {
		if z == p {
			return true
		}
	}
	return false
}
