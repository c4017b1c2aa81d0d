package samss

import (
	"testing"

	"github.com/gonum/floats"
)

func TestNewReferenceFrameCanonical(t *testing.T) {
	rf := NewReferenceFrame("universal")
	i, j, k := rf.IJK()
	want := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for idx, v := range [][]float64{i, j, k} {
		for c := range v {
			if !floats.EqualWithinAbs(v[c], want[idx][c], 1e-12) {
				t.Fatalf("canonical frame basis %d mismatch: got %v, want %v", idx, v, want[idx])
			}
		}
	}
}

func TestRotateOrthonormality(t *testing.T) {
	rf := NewReferenceFrame("body")
	q := EulerToQuat(0.3, -0.5, 1.2)
	rf.Rotate(q)
	i, j, k := rf.IJK()
	if !floats.EqualWithinAbs(Norm(i), 1, 1e-9) || !floats.EqualWithinAbs(Norm(j), 1, 1e-9) || !floats.EqualWithinAbs(Norm(k), 1, 1e-9) {
		t.Fatalf("rotated basis not unit length: |i|=%f |j|=%f |k|=%f", Norm(i), Norm(j), Norm(k))
	}
	if !floats.EqualWithinAbs(Dot(i, j), 0, 1e-9) || !floats.EqualWithinAbs(Dot(j, k), 0, 1e-9) || !floats.EqualWithinAbs(Dot(k, i), 0, 1e-9) {
		t.Fatalf("rotated basis not orthogonal")
	}
	crossIJ := Cross(i, j)
	for c := range crossIJ {
		if !floats.EqualWithinAbs(crossIJ[c], k[c], 1e-9) {
			t.Fatalf("rotated basis not right-handed: i x j = %v, want %v", crossIJ, k)
		}
	}
}

func TestRotateAbsResetsBeforeRotating(t *testing.T) {
	rf := NewReferenceFrame("body")
	rf.Rotate(EulerToQuat(0.1, 0.2, 0.3))
	q2 := EulerToQuat(-0.4, 0.5, 0.1)
	rf.RotateAbs(q2)

	fresh := NewReferenceFrame("fresh")
	fresh.Rotate(q2)

	i1, j1, k1 := rf.IJK()
	i2, j2, k2 := fresh.IJK()
	for c := 0; c < 3; c++ {
		if !floats.EqualWithinAbs(i1[c], i2[c], 1e-9) || !floats.EqualWithinAbs(j1[c], j2[c], 1e-9) || !floats.EqualWithinAbs(k1[c], k2[c], 1e-9) {
			t.Fatalf("RotateAbs did not discard prior rotation")
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	rf := NewReferenceFrame("a")
	clone := rf.Clone("b")
	clone.Rotate(EulerToQuat(0.5, 0, 0))
	i, _, _ := rf.IJK()
	if !floats.EqualWithinAbs(i[0], 1, 1e-12) {
		t.Fatalf("rotating clone mutated original frame")
	}
	if clone.Name != "b" {
		t.Fatalf("expected clone name %q, got %q", "b", clone.Name)
	}
}
