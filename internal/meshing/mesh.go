package meshing

// Mesh is the renderable geometry of one chunk: an opaque triangle list and a
// translucent water triangle list, both interleaved per VertexStride. A scene
// holds the *Mesh itself; rebuilds swap the slices underneath it so the
// pointer stays valid across edits.
type Mesh struct {
	Opaque []float32
	Water  []float32
}

// Replace installs freshly built vertex groups without changing the Mesh's
// identity.
func (m *Mesh) Replace(opaque, water []float32) {
	m.Opaque = opaque
	m.Water = water
}

// OpaqueVertexCount returns the number of opaque vertices.
func (m *Mesh) OpaqueVertexCount() int { return len(m.Opaque) / VertexStride }

// WaterVertexCount returns the number of water vertices.
func (m *Mesh) WaterVertexCount() int { return len(m.Water) / VertexStride }

// Empty reports whether the mesh holds no geometry at all.
func (m *Mesh) Empty() bool { return len(m.Opaque) == 0 && len(m.Water) == 0 }
