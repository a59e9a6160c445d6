// 指示: miu200521358
package rinteractor

import (
	"testing"

	"github.com/miu200521358/mu_pose2rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
)

func TestCoordinateMapperMapMirrorsAndScales(t *testing.T) {
	mapper := NewCoordinateMapper(2.0, 2.0, 1.5)

	got := mapper.Map(&model.Landmark{X: 0.25, Y: 0.5, Z: 0.2})
	if got == nil {
		t.Fatalf("expected mapped position")
	}
	want := mmath.NewMVec3(0.5, 1.0, -0.3)
	if !got.NearEquals(want, 1e-9) {
		t.Fatalf("unexpected mapping: got=%+v want=%+v", got, want)
	}
}

func TestCoordinateMapperMapCenterIsOrigin(t *testing.T) {
	mapper := NewCoordinateMapper(2.0, 2.0, 1.5)

	got := mapper.Map(&model.Landmark{X: 0.5, Y: 1.0, Z: 0.0})
	if got == nil || !got.NearEquals(mmath.MVec3Zero, 1e-9) {
		t.Fatalf("expected image bottom center to map onto origin: got=%+v", got)
	}
}

func TestCoordinateMapperMapMissingLandmark(t *testing.T) {
	mapper := NewCoordinateMapper(2.0, 2.0, 1.5)
	if got := mapper.Map(nil); got != nil {
		t.Fatalf("expected nil for missing landmark: got=%+v", got)
	}

	frame := make(model.LandmarkFrame, model.LandmarkCount)
	if got := mapper.MapAt(frame, model.LandmarkLeftShoulder); got != nil {
		t.Fatalf("expected nil for empty frame slot: got=%+v", got)
	}
	if got := mapper.MapAt(frame, model.LandmarkCount+5); got != nil {
		t.Fatalf("expected nil for out-of-range index: got=%+v", got)
	}
}

func TestCoordinateMapperMapMean(t *testing.T) {
	mapper := NewCoordinateMapper(2.0, 2.0, 1.5)
	frame := make(model.LandmarkFrame, model.LandmarkCount)
	frame[model.LandmarkLeftHip] = &model.Landmark{X: 0.4, Y: 0.6, Z: 0.0}
	frame[model.LandmarkRightHip] = &model.Landmark{X: 0.6, Y: 0.6, Z: 0.0}

	got := mapper.MapMean(frame, model.LandmarkLeftHip, model.LandmarkRightHip)
	if got == nil {
		t.Fatalf("expected mean position")
	}
	want := mmath.NewMVec3(0.0, 0.8, 0.0)
	if !got.NearEquals(want, 1e-9) {
		t.Fatalf("unexpected mean mapping: got=%+v want=%+v", got, want)
	}

	// 平均対象の1点でも欠落していれば平均全体を欠落として扱う
	frame[model.LandmarkRightHip] = nil
	if got := mapper.MapMean(frame, model.LandmarkLeftHip, model.LandmarkRightHip); got != nil {
		t.Fatalf("expected nil mean when one landmark is missing: got=%+v", got)
	}
}
