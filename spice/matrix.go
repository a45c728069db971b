package spice

import (
	"fmt"

	"github.com/edp1096/sparse"
)

/*
	Wrapper around the sparse solver, sized for modified nodal analysis
	with interleaved complex vectors. Indices are 1-based; index 0 is
	ground and must be skipped by the caller.
*/
type Matrix struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64
	rhsImag  []float64
	solution []float64
}

func NewMatrix(size int) (*Matrix, error) {
	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 true,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               false,
		ModifiedNodal:           true,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, err
	}

	return &Matrix{
		Size:    size,
		matrix:  mat,
		rhs:     make([]float64, 2*(size+1)),
		rhsImag: make([]float64, 1),
	}, nil
}

func (m *Matrix) AddComplexElement(i, j int, real, imag float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		return
	}

	element := m.matrix.GetElement(int64(i), int64(j))
	element.Real += real
	element.Imag += imag
}

func (m *Matrix) AddComplexRHS(i int, real, imag float64) {
	if i <= 0 || i > m.Size {
		return
	}

	m.rhs[2*i] += real
	m.rhs[2*i+1] += imag
}

func (m *Matrix) Clear() {
	m.matrix.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

func (m *Matrix) Solve() error {
	if err := m.matrix.Factor(); err != nil {
		return fmt.Errorf("matrix factorization failed: %v", err)
	}

	solution, _, err := m.matrix.SolveComplex(m.rhs, m.rhsImag)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %v", err)
	}

	m.solution = solution
	return nil
}

func (m *Matrix) ComplexSolution(i int) complex128 {
	if i <= 0 || i > m.Size || m.solution == nil {
		return 0
	}

	return complex(m.solution[i], m.solution[i+m.Size])
}

func (m *Matrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
	}
}
