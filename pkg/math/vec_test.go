package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := 5.0
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 12}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("expected finite vector")
	}
	var zero float64
	if (Vec3{1, 0 / zero, 3}).IsFinite() {
		t.Error("NaN component should not be finite")
	}
}

func TestMat3Mul(t *testing.T) {
	a := Mat3{
		1, 2, 0,
		0, 1, 0,
		0, 0, 3,
	}
	got := a.Mul(Mat3Identity())
	if got != a {
		t.Errorf("A * I = %v, want %v", got, a)
	}

	v := a.MulVec3(Vec3{1, 1, 1})
	if v != (Vec3{3, 1, 3}) {
		t.Errorf("MulVec3 = %v, want (3, 1, 3)", v)
	}
}

func TestMat3Transpose(t *testing.T) {
	a := Mat3FromRows([3][3]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	tr := a.Transpose()
	if tr.At(0, 1) != 4 || tr.At(2, 0) != 3 {
		t.Errorf("Transpose() = %v", tr)
	}
	if a.Rows()[1] != [3]float64{4, 5, 6} {
		t.Errorf("Rows()[1] = %v", a.Rows()[1])
	}
}

func TestMat3Symmetric(t *testing.T) {
	s := Mat3{2, 1, 0, 1, 2, 0, 0, 0, 1}
	if !s.IsSymmetric(1e-12) {
		t.Error("expected symmetric")
	}
	n := Mat3{2, 1, 0, 0, 2, 0, 0, 0, 1}
	if n.IsSymmetric(1e-12) {
		t.Error("expected non-symmetric")
	}
	if d := Mat3Diag(2, 3, 4).Det(); d != 24 {
		t.Errorf("Det() = %v, want 24", d)
	}
}
