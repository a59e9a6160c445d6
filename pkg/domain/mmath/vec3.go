// 指示: miu200521358
package mmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MVec3 は3次元ベクトルを表す。
type MVec3 struct {
	r3.Vec
}

// MVec3Zero はゼロベクトルを表す。
var MVec3Zero = MVec3{}

// MVec3UnitX はX軸単位ベクトルを表す。
var MVec3UnitX = MVec3{Vec: r3.Vec{X: 1}}

// MVec3UnitY はY軸単位ベクトルを表す。
var MVec3UnitY = MVec3{Vec: r3.Vec{Y: 1}}

// MVec3UnitYNeg はY軸負方向単位ベクトルを表す。
var MVec3UnitYNeg = MVec3{Vec: r3.Vec{Y: -1}}

// MVec3UnitZ はZ軸単位ベクトルを表す。
var MVec3UnitZ = MVec3{Vec: r3.Vec{Z: 1}}

// NewMVec3 は成分指定でベクトルを生成する。
func NewMVec3(x, y, z float64) MVec3 {
	return MVec3{Vec: r3.Vec{X: x, Y: y, Z: z}}
}

// Added は加算結果を返す。
func (v MVec3) Added(other MVec3) MVec3 {
	return MVec3{Vec: r3.Add(v.Vec, other.Vec)}
}

// Subed は減算結果を返す。
func (v MVec3) Subed(other MVec3) MVec3 {
	return MVec3{Vec: r3.Sub(v.Vec, other.Vec)}
}

// MuledScalar はスカラー倍の結果を返す。
func (v MVec3) MuledScalar(s float64) MVec3 {
	return MVec3{Vec: r3.Scale(s, v.Vec)}
}

// Dot は内積を返す。
func (v MVec3) Dot(other MVec3) float64 {
	return r3.Dot(v.Vec, other.Vec)
}

// Cross は外積を返す。
func (v MVec3) Cross(other MVec3) MVec3 {
	return MVec3{Vec: r3.Cross(v.Vec, other.Vec)}
}

// Length はベクトル長を返す。
func (v MVec3) Length() float64 {
	return r3.Norm(v.Vec)
}

// Distance は他点との距離を返す。
func (v MVec3) Distance(other MVec3) float64 {
	return r3.Norm(r3.Sub(v.Vec, other.Vec))
}

// Normalized は正規化結果を返す。長さがほぼ0の場合はゼロベクトルを返す。
func (v MVec3) Normalized() MVec3 {
	if r3.Norm(v.Vec) <= Epsilon {
		return MVec3Zero
	}
	return MVec3{Vec: r3.Unit(v.Vec)}
}

// Lerped は線形補間結果を返す。
func (v MVec3) Lerped(other MVec3, t float64) MVec3 {
	return MVec3{Vec: r3.Add(v.Vec, r3.Scale(t, r3.Sub(other.Vec, v.Vec)))}
}

// NearEquals は許容誤差内で一致するか判定する。
func (v MVec3) NearEquals(other MVec3, tolerance float64) bool {
	return math.Abs(v.X-other.X) <= tolerance &&
		math.Abs(v.Y-other.Y) <= tolerance &&
		math.Abs(v.Z-other.Z) <= tolerance
}

// MeanVec3 は2点の中点を返す。
func MeanVec3(a, b MVec3) MVec3 {
	return MVec3{Vec: r3.Scale(0.5, r3.Add(a.Vec, b.Vec))}
}
