package surface

import "context"

// Mesh holds the flat vertex streams of one generation, ready to be consumed
// as a triangle strip. A Mesh is never modified after Generate returns it.
type Mesh struct {
	Params    Params
	Positions []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex
	TexCoords []float32 // 2 per vertex
}

// Generate samples p and returns the mesh. Each (u, v) grid point emits the
// plus-sheet vertex followed by the minus-sheet vertex; u is the outer loop.
func Generate(p Params) (*Mesh, error) {
	return GenerateContext(context.Background(), p)
}

// GenerateContext is Generate with cancellation, checked once per u row.
func GenerateContext(ctx context.Context, p Params) (*Mesh, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	nU, nV := GridSize(p)
	vertices := 2 * nU * nV
	m := &Mesh{
		Params:    p,
		Positions: make([]float32, 0, vertices*3),
		Normals:   make([]float32, 0, vertices*3),
		TexCoords: make([]float32, 0, vertices*2),
	}

	for i := range nU {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		u := p.UMin + float64(i)*p.Step
		for j := range nV {
			// Accumulated steps never pass VMax.
			v := min(p.VMin+float64(j)*p.Step, p.VMax)
			plus, minus := Sample(p, u, v)
			m.append(plus)
			m.append(minus)
		}
	}
	return m, nil
}

func (m *Mesh) append(v Vertex) {
	m.Positions = append(m.Positions, v.Position[:]...)
	m.Normals = append(m.Normals, v.Normal[:]...)
	m.TexCoords = append(m.TexCoords, v.TexCoord[:]...)
}

// VertexCount returns the number of vertices in the strip.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// Vertex returns vertex i.
func (m *Mesh) Vertex(i int) Vertex {
	var v Vertex
	copy(v.Position[:], m.Positions[i*3:i*3+3])
	copy(v.Normal[:], m.Normals[i*3:i*3+3])
	copy(v.TexCoord[:], m.TexCoords[i*2:i*2+2])
	return v
}
