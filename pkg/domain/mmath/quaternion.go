// 指示: miu200521358
package mmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// MQuaternion は回転クォータニオンを表す。
type MQuaternion struct {
	quat.Number
}

// MQuaternionIdent は単位クォータニオンを表す。
var MQuaternionIdent = MQuaternion{Number: quat.Number{Real: 1}}

// NewMQuaternion は成分指定でクォータニオンを生成する。
func NewMQuaternion(w, x, y, z float64) MQuaternion {
	return MQuaternion{Number: quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}}
}

// NewMQuaternionAxisAngle は回転軸と回転角からクォータニオンを生成する。
func NewMQuaternionAxisAngle(axis MVec3, angle float64) MQuaternion {
	unit := axis.Normalized()
	if unit.Length() <= Epsilon {
		return MQuaternionIdent
	}
	half := angle * 0.5
	sin := math.Sin(half)
	return MQuaternion{Number: quat.Number{
		Real: math.Cos(half),
		Imag: unit.X * sin,
		Jmag: unit.Y * sin,
		Kmag: unit.Z * sin,
	}}
}

// NewMQuaternionRotate は from を to へ写す最短弧回転を生成する。
// 平行の場合は単位クォータニオン、反平行の場合は決定的に選んだ垂直軸の180度回転を返す。
func NewMQuaternionRotate(from, to MVec3) MQuaternion {
	fromUnit := from.Normalized()
	toUnit := to.Normalized()
	if fromUnit.Length() <= Epsilon || toUnit.Length() <= Epsilon {
		return MQuaternionIdent
	}

	dot := fromUnit.Dot(toUnit)
	if dot >= 1.0-Epsilon {
		return MQuaternionIdent
	}
	if dot <= -1.0+Epsilon {
		axis := MVec3UnitX.Cross(fromUnit)
		if axis.Length() <= Epsilon {
			axis = MVec3UnitY.Cross(fromUnit)
		}
		return NewMQuaternionAxisAngle(axis, math.Pi)
	}

	cross := fromUnit.Cross(toUnit)
	q := MQuaternion{Number: quat.Number{
		Real: 1.0 + dot,
		Imag: cross.X,
		Jmag: cross.Y,
		Kmag: cross.Z,
	}}
	return q.Normalized()
}

// Muled は this * other の合成結果を返す。
func (q MQuaternion) Muled(other MQuaternion) MQuaternion {
	return MQuaternion{Number: quat.Mul(q.Number, other.Number)}
}

// Inverted は単位クォータニオン前提の逆回転(共役)を返す。
func (q MQuaternion) Inverted() MQuaternion {
	return MQuaternion{Number: quat.Conj(q.Number)}
}

// Dot は内積を返す。
func (q MQuaternion) Dot(other MQuaternion) float64 {
	return q.Real*other.Real + q.Imag*other.Imag + q.Jmag*other.Jmag + q.Kmag*other.Kmag
}

// Length はノルムを返す。
func (q MQuaternion) Length() float64 {
	return quat.Abs(q.Number)
}

// Normalized は正規化結果を返す。ノルムがほぼ0の場合は単位クォータニオンを返す。
func (q MQuaternion) Normalized() MQuaternion {
	length := quat.Abs(q.Number)
	if length <= Epsilon {
		return MQuaternionIdent
	}
	return MQuaternion{Number: quat.Scale(1.0/length, q.Number)}
}

// Negated は全成分符号反転を返す。同一回転の別表現となる。
func (q MQuaternion) Negated() MQuaternion {
	return MQuaternion{Number: quat.Scale(-1.0, q.Number)}
}

// Slerp は球面線形補間の結果を返す。
func (q MQuaternion) Slerp(other MQuaternion, t float64) MQuaternion {
	dot := q.Dot(other)
	target := other
	if dot < 0 {
		// 最短経路側の表現を選ぶ
		target = other.Negated()
		dot = -dot
	}
	if dot >= 1.0-Epsilon {
		return MQuaternion{Number: quat.Add(
			quat.Scale(1.0-t, q.Number),
			quat.Scale(t, target.Number),
		)}.Normalized()
	}

	theta := math.Acos(Clamped(dot, -1.0, 1.0))
	sinTheta := math.Sin(theta)
	if math.Abs(sinTheta) <= Epsilon {
		return q
	}
	wa := math.Sin((1.0-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return MQuaternion{Number: quat.Add(
		quat.Scale(wa, q.Number),
		quat.Scale(wb, target.Number),
	)}.Normalized()
}

// Rotated はベクトルへ回転を適用した結果を返す。
func (q MQuaternion) Rotated(v MVec3) MVec3 {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	rotated := quat.Mul(quat.Mul(q.Number, p), quat.Conj(q.Number))
	return NewMVec3(rotated.Imag, rotated.Jmag, rotated.Kmag)
}

// Axis は回転軸を返す。回転角がほぼ0の場合はゼロベクトルを返す。
func (q MQuaternion) Axis() MVec3 {
	sinHalf := math.Sqrt(1.0 - Clamped(q.Real*q.Real, 0.0, 1.0))
	if sinHalf <= Epsilon {
		return MVec3Zero
	}
	return NewMVec3(q.Imag/sinHalf, q.Jmag/sinHalf, q.Kmag/sinHalf)
}

// Angle は回転角(ラジアン)を返す。
func (q MQuaternion) Angle() float64 {
	return 2.0 * math.Acos(Clamped(math.Abs(q.Real), 0.0, 1.0))
}

// NearEquals は同一回転として許容誤差内で一致するか判定する。
func (q MQuaternion) NearEquals(other MQuaternion, tolerance float64) bool {
	return math.Abs(math.Abs(q.Dot(other))-1.0) <= tolerance
}
