// 指示: miu200521358
package mmath

import "math"

// Epsilon は退化判定に使う許容誤差を表す。
const Epsilon = 1e-8

// Lerp は線形補間値を返す。
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// NormalizedRadian は角度を (-π, π] の範囲へ正規化する。
func NormalizedRadian(angle float64) float64 {
	normalized := math.Mod(angle+math.Pi, 2*math.Pi)
	if normalized <= 0 {
		normalized += 2 * math.Pi
	}
	return normalized - math.Pi
}

// LerpRadian は±πの境界をまたぐ最短経路で角度を補間する。
func LerpRadian(a, b, t float64) float64 {
	diff := NormalizedRadian(b - a)
	return NormalizedRadian(a + diff*t)
}

// NearEquals は許容誤差内で一致するか判定する。
func NearEquals(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// Clamped は値を範囲内へ丸める。
func Clamped(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
