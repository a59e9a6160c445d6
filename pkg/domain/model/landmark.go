// 指示: miu200521358
package model

// ランドマーク番号は外部姿勢推定器との契約であり、公開されている
// 33点の解剖学的ランドマーク番号体系に従う。番号の振り直しは不可。
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	LandmarkNose           = 0
	LandmarkLeftShoulder   = 11
	LandmarkRightShoulder  = 12
	LandmarkLeftElbow      = 13
	LandmarkRightElbow     = 14
	LandmarkLeftWrist      = 15
	LandmarkRightWrist     = 16
	LandmarkLeftPinky      = 17
	LandmarkRightPinky     = 18
	LandmarkLeftIndex      = 19
	LandmarkRightIndex     = 20
	LandmarkLeftThumb      = 21
	LandmarkRightThumb     = 22
	LandmarkLeftHip        = 23
	LandmarkRightHip       = 24
	LandmarkLeftKnee       = 25
	LandmarkRightKnee      = 26
	LandmarkLeftAnkle      = 27
	LandmarkRightAnkle     = 28
	LandmarkLeftHeel       = 29
	LandmarkRightHeel      = 30
	LandmarkLeftFootIndex  = 31
	LandmarkRightFootIndex = 32

	// LandmarkCount は1人あたりのランドマーク点数を表す。
	LandmarkCount = 33
)

// Landmark は正規化カメラ空間の追跡点を表す。
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// LandmarkFrame は1フレーム1人分のランドマーク列を表す。
// 欠落したランドマークは nil で表す。
type LandmarkFrame []*Landmark

// At は指定番号のランドマークを返す。範囲外・欠落は nil を返す。
func (f LandmarkFrame) At(index int) *Landmark {
	if index < 0 || index >= len(f) {
		return nil
	}
	return f[index]
}
