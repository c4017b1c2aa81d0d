package samss

// ReferenceFrame is a named, orthonormal, right-handed triad {i, j, k}. Two
// frames with identical triads may coexist; identity is carried by Name,
// not by value.
type ReferenceFrame struct {
	Name    string
	i, j, k []float64
}

// NewReferenceFrame returns the canonical universal triad under the given name.
func NewReferenceFrame(name string) *ReferenceFrame {
	return &ReferenceFrame{
		Name: name,
		i:    []float64{1, 0, 0},
		j:    []float64{0, 1, 0},
		k:    []float64{0, 0, 1},
	}
}

// IJK returns the frame's basis vectors.
func (rf *ReferenceFrame) IJK() (i, j, k []float64) {
	return rf.i, rf.j, rf.k
}

// SetIJK sets the frame's basis vectors directly.
func (rf *ReferenceFrame) SetIJK(i, j, k []float64) {
	rf.i, rf.j, rf.k = i, j, k
}

// Rotate post-composes a rotation by q onto the current triad: each basis
// vector is replaced by q.v.q^-1.
func (rf *ReferenceFrame) Rotate(q Quaternion) {
	rf.i = q.Rotate(rf.i)
	rf.j = q.Rotate(rf.j)
	rf.k = q.Rotate(rf.k)
}

// RotateAbs resets the triad to the canonical universal basis, then applies
// Rotate(q). This is how a body frame is re-synced to a freshly integrated
// attitude quaternion.
func (rf *ReferenceFrame) RotateAbs(q Quaternion) {
	rf.i = []float64{1, 0, 0}
	rf.j = []float64{0, 1, 0}
	rf.k = []float64{0, 0, 1}
	rf.Rotate(q)
}

// Clone returns a copy of the frame under a new name.
func (rf *ReferenceFrame) Clone(name string) *ReferenceFrame {
	i := append([]float64(nil), rf.i...)
	j := append([]float64(nil), rf.j...)
	k := append([]float64(nil), rf.k...)
	return &ReferenceFrame{Name: name, i: i, j: j, k: k}
}

// SetName renames the frame. Permitted at frame registration.
func (rf *ReferenceFrame) SetName(name string) {
	rf.Name = name
}

// frameState is the persisted representation of a ReferenceFrame (see
// timestep.go).
type frameState struct {
	Name       string
	I, J, K    []float64
}

func (rf *ReferenceFrame) snapshot() frameState {
	return frameState{Name: rf.Name, I: rf.i, J: rf.j, K: rf.k}
}

func frameFromSnapshot(s frameState) *ReferenceFrame {
	return &ReferenceFrame{Name: s.Name, i: s.I, j: s.J, k: s.K}
}
