// 指示: miu200521358
package mmath

import (
	"math"
	"testing"
)

func TestNewMQuaternionRotateMapsFromOntoTo(t *testing.T) {
	from := NewMVec3(0, -1, 0)
	to := NewMVec3(1, 1, 0).Normalized()

	q := NewMQuaternionRotate(from, to)
	rotated := q.Rotated(from)

	if !rotated.NearEquals(to, 1e-6) {
		t.Fatalf("expected rotated vector to match target: got=%+v want=%+v", rotated, to)
	}
}

func TestNewMQuaternionRotateParallelReturnsIdentity(t *testing.T) {
	q := NewMQuaternionRotate(NewMVec3(0, 1, 0), NewMVec3(0, 2, 0))
	if !q.NearEquals(MQuaternionIdent, 1e-9) {
		t.Fatalf("expected identity for parallel vectors: got=%+v", q)
	}
}

func TestNewMQuaternionRotateAntiParallelIsDeterministic(t *testing.T) {
	from := NewMVec3(0, 1, 0)
	to := NewMVec3(0, -1, 0)

	first := NewMQuaternionRotate(from, to)
	second := NewMQuaternionRotate(from, to)

	if first != second {
		t.Fatalf("expected deterministic anti-parallel rotation: first=%+v second=%+v", first, second)
	}
	rotated := first.Rotated(from)
	if !rotated.NearEquals(to, 1e-6) {
		t.Fatalf("expected 180deg rotation to flip vector: got=%+v", rotated)
	}
	if !NearEquals(first.Angle(), math.Pi, 1e-6) {
		t.Fatalf("expected rotation angle π: got=%f", first.Angle())
	}
}

func TestNewMQuaternionRotateAntiParallelOnXAxisPicksFallbackAxis(t *testing.T) {
	// from がX軸平行の場合、第一候補の垂直軸(X×from)が退化する
	from := NewMVec3(1, 0, 0)
	to := NewMVec3(-1, 0, 0)

	q := NewMQuaternionRotate(from, to)
	rotated := q.Rotated(from)
	if !rotated.NearEquals(to, 1e-6) {
		t.Fatalf("expected fallback axis to flip vector: got=%+v", rotated)
	}
}

func TestSlerpEndpointsAndMidpoint(t *testing.T) {
	a := MQuaternionIdent
	b := NewMQuaternionAxisAngle(MVec3UnitY, math.Pi/2)

	if got := a.Slerp(b, 0); !got.NearEquals(a, 1e-9) {
		t.Fatalf("expected t=0 to return start: got=%+v", got)
	}
	if got := a.Slerp(b, 1); !got.NearEquals(b, 1e-9) {
		t.Fatalf("expected t=1 to return end: got=%+v", got)
	}

	mid := a.Slerp(b, 0.5)
	want := NewMQuaternionAxisAngle(MVec3UnitY, math.Pi/4)
	if !mid.NearEquals(want, 1e-9) {
		t.Fatalf("expected midpoint quarter rotation: got=%+v want=%+v", mid, want)
	}
}

func TestSlerpTakesShortestPathAcrossSignFlip(t *testing.T) {
	a := NewMQuaternionAxisAngle(MVec3UnitY, 0.1)
	b := NewMQuaternionAxisAngle(MVec3UnitY, 0.3).Negated()

	mid := a.Slerp(b, 0.5)
	want := NewMQuaternionAxisAngle(MVec3UnitY, 0.2)
	if !mid.NearEquals(want, 1e-9) {
		t.Fatalf("expected shortest-path slerp: got=%+v want=%+v", mid, want)
	}
}

func TestMuledComposesRotations(t *testing.T) {
	yaw := NewMQuaternionAxisAngle(MVec3UnitY, math.Pi/2)
	pitch := NewMQuaternionAxisAngle(MVec3UnitX, math.Pi/2)

	// pitch を先に適用し、次に yaw を適用する合成
	composed := yaw.Muled(pitch)
	got := composed.Rotated(NewMVec3(0, 0, 1))
	want := yaw.Rotated(pitch.Rotated(NewMVec3(0, 0, 1)))
	if !got.NearEquals(want, 1e-9) {
		t.Fatalf("expected composition order rest*tracked: got=%+v want=%+v", got, want)
	}
}

func TestLerpRadianWrapsAroundPi(t *testing.T) {
	a := 179.0 * math.Pi / 180.0
	b := -179.0 * math.Pi / 180.0

	got := LerpRadian(a, b, 0.5)
	wantAbs := math.Pi
	if !NearEquals(math.Abs(got), wantAbs, 1e-9) {
		t.Fatalf("expected interpolation through ±π boundary: got=%f", got)
	}

	// 1ステップの変化量が補間係数相当を超えないこと
	step := math.Abs(NormalizedRadian(got - a))
	if step > 2.0*math.Pi/180.0+1e-9 {
		t.Fatalf("expected short-path step of ~1deg: got=%f rad", step)
	}
}

func TestNormalizedRadianRange(t *testing.T) {
	for _, angle := range []float64{-7.0, -math.Pi, 0.0, math.Pi, 7.0, 13.5} {
		normalized := NormalizedRadian(angle)
		if normalized <= -math.Pi || normalized > math.Pi {
			t.Fatalf("expected (-π, π] range: in=%f out=%f", angle, normalized)
		}
	}
}
