// 指示: miu200521358
package rinteractor

import (
	"github.com/miu200521358/mu_pose2rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
)

// CoordinateMapper は正規化カメラ空間から右手系ワールド空間への変換を表す。
// 平滑化はここでは行わない。平滑化は生ランドマークと回転に対して時間方向に適用する。
type CoordinateMapper struct {
	scaleX     float64
	scaleY     float64
	depthScale float64
}

// NewCoordinateMapper は座標変換器を生成する。
func NewCoordinateMapper(scaleX, scaleY, depthScale float64) *CoordinateMapper {
	return &CoordinateMapper{
		scaleX:     scaleX,
		scaleY:     scaleY,
		depthScale: depthScale,
	}
}

// Map はランドマークをワールド座標へ変換する。欠落は nil を返す。
func (m *CoordinateMapper) Map(landmark *model.Landmark) *mmath.MVec3 {
	if landmark == nil {
		return nil
	}
	mapped := mmath.NewMVec3(
		(0.5-landmark.X)*m.scaleX,
		(1.0-landmark.Y)*m.scaleY,
		-landmark.Z*m.depthScale,
	)
	return &mapped
}

// MapAt は指定番号のランドマークをワールド座標へ変換する。
func (m *CoordinateMapper) MapAt(frame model.LandmarkFrame, index int) *mmath.MVec3 {
	return m.Map(frame.At(index))
}

// MapMean は指定番号群の平均ワールド座標を返す。いずれかが欠落なら nil を返す。
func (m *CoordinateMapper) MapMean(frame model.LandmarkFrame, indexes ...int) *mmath.MVec3 {
	if len(indexes) == 0 {
		return nil
	}
	sum := mmath.MVec3Zero
	for _, index := range indexes {
		mapped := m.MapAt(frame, index)
		if mapped == nil {
			return nil
		}
		sum = sum.Added(*mapped)
	}
	mean := sum.MuledScalar(1.0 / float64(len(indexes)))
	return &mean
}
