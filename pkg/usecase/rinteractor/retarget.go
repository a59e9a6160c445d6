// 指示: miu200521358
package rinteractor

import (
	"math"

	"github.com/miu200521358/mu_pose2rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
)

const (
	// defaultSmoothingFactor は平滑化係数の既定値を表す。
	defaultSmoothingFactor = 0.3
	// defaultHorizontalAmplification は水平移動増幅率の既定値を表す。
	defaultHorizontalAmplification = 1.0
	// defaultDepthScale は深度スケールの既定値を表す。
	defaultDepthScale = 1.5
	// defaultStageScale はステージ座標スケールの既定値を表す。
	defaultStageScale = 2.0
	// defaultTargetHeight はモデル正規化後のターゲット身長を表す。
	defaultTargetHeight = 1.6
)

// RetargetConfig はリターゲティングの数値設定を表す。生成時に与え、以後変更しない。
type RetargetConfig struct {
	SmoothingFactor         float64
	HorizontalAmplification float64
	DepthScale              float64
	StageScaleX             float64
	StageScaleY             float64
}

// DefaultRetargetConfig は既定のリターゲティング設定を返す。
func DefaultRetargetConfig() RetargetConfig {
	return RetargetConfig{
		SmoothingFactor:         defaultSmoothingFactor,
		HorizontalAmplification: defaultHorizontalAmplification,
		DepthScale:              defaultDepthScale,
		StageScaleX:             defaultStageScale,
		StageScaleY:             defaultStageScale,
	}
}

// normalized は未指定(ゼロ値)の項目へ既定値を補った設定を返す。
func (c RetargetConfig) normalized() RetargetConfig {
	normalized := c
	if normalized.SmoothingFactor <= 0 {
		normalized.SmoothingFactor = defaultSmoothingFactor
	}
	if normalized.HorizontalAmplification < 1 {
		normalized.HorizontalAmplification = defaultHorizontalAmplification
	}
	if normalized.DepthScale <= 0 {
		normalized.DepthScale = defaultDepthScale
	}
	if normalized.StageScaleX <= 0 {
		normalized.StageScaleX = defaultStageScale
	}
	if normalized.StageScaleY <= 0 {
		normalized.StageScaleY = defaultStageScale
	}
	return normalized
}

// ActiveCharacterState は追跡中の1人分のリターゲティング状態を表す。
// 毎フレーム更新され、アクティブモデルの切替時に回転履歴が初期化される。
type ActiveCharacterState struct {
	rootNode         *model.Node
	modelID          string
	prevLandmarks    []*model.Landmark
	prevOrientations map[model.CanonicalBoneName]mmath.MQuaternion
	position         mmath.MVec3
	positionValid    bool
	yaw              float64
	yawValid         bool
}

// NewActiveCharacterState はキャラクタ状態を生成する。
// rootNode はキャラクタ全体の配置に使う親変換ノードを指す。
func NewActiveCharacterState(rootNode *model.Node) *ActiveCharacterState {
	return &ActiveCharacterState{
		rootNode:         rootNode,
		prevLandmarks:    make([]*model.Landmark, model.LandmarkCount),
		prevOrientations: map[model.CanonicalBoneName]mmath.MQuaternion{},
	}
}

// RootNode はキャラクタの親変換ノードを返す。
func (s *ActiveCharacterState) RootNode() *model.Node {
	return s.rootNode
}

// ModelID は現在追従中のモデルIDを返す。
func (s *ActiveCharacterState) ModelID() string {
	return s.modelID
}

// Yaw は現在の平滑化済みヨー角を返す。
func (s *ActiveCharacterState) Yaw() float64 {
	return s.yaw
}

// resetOrientations はモデル切替時に回転履歴を初期化する。
func (s *ActiveCharacterState) resetOrientations() {
	s.prevOrientations = map[model.CanonicalBoneName]mmath.MQuaternion{}
}

// RetargetUsecaseDeps はリターゲティングユースケースの依存を表す。
type RetargetUsecaseDeps struct {
	Cache  *ModelAssetCache
	Config RetargetConfig
}

// RetargetUsecase はランドマーク列からボーン回転への毎フレーム変換をまとめたユースケースを表す。
type RetargetUsecase struct {
	cache  *ModelAssetCache
	config RetargetConfig
	mapper *CoordinateMapper
}

// NewRetargetUsecase はリターゲティングユースケースを生成する。
func NewRetargetUsecase(deps RetargetUsecaseDeps) *RetargetUsecase {
	config := deps.Config.normalized()
	return &RetargetUsecase{
		cache:  deps.Cache,
		config: config,
		mapper: NewCoordinateMapper(config.StageScaleX, config.StageScaleY, config.DepthScale),
	}
}

// Retarget は1フレーム分のランドマークをアクティブ資産のボーンへ反映する。
// 欠落データは該当更新の読み飛ばしで回復し、フレームループを中断させない。
// スケルトンを持たない資産でもルートの位置とヨーは追従する。
func (uc *RetargetUsecase) Retarget(state *ActiveCharacterState, frame model.LandmarkFrame) {
	if state == nil || state.rootNode == nil {
		return
	}

	var asset *model.SkeletonAsset
	if uc.cache != nil {
		asset = uc.cache.ActiveAsset()
	}
	if asset != nil && asset.ModelID() != state.modelID {
		state.modelID = asset.ModelID()
		state.resetOrientations()
	}

	smoothed := uc.smoothLandmarks(state, frame)
	uc.updateRootTransform(state, smoothed)

	if asset == nil || !asset.HasSkeleton() {
		return
	}
	uc.updateBones(state, asset, smoothed)
}

// smoothLandmarks は生ランドマークを時間方向に指数平滑化する。
// 初回は生値をそのまま通し、欠落はそのフレームの欠落として扱う(履歴は保持する)。
func (uc *RetargetUsecase) smoothLandmarks(
	state *ActiveCharacterState, frame model.LandmarkFrame,
) model.LandmarkFrame {
	alpha := uc.config.SmoothingFactor
	smoothed := make(model.LandmarkFrame, model.LandmarkCount)
	for i := 0; i < model.LandmarkCount; i++ {
		raw := frame.At(i)
		if raw == nil {
			continue
		}
		prev := state.prevLandmarks[i]
		if prev == nil {
			blended := *raw
			state.prevLandmarks[i] = &blended
			smoothed[i] = &blended
			continue
		}
		blended := model.Landmark{
			X:          mmath.Lerp(prev.X, raw.X, alpha),
			Y:          mmath.Lerp(prev.Y, raw.Y, alpha),
			Z:          mmath.Lerp(prev.Z, raw.Z, alpha),
			Visibility: mmath.Lerp(prev.Visibility, raw.Visibility, alpha),
		}
		state.prevLandmarks[i] = &blended
		smoothed[i] = &blended
	}
	return smoothed
}

// updateRootTransform は腰・肩ランドマークから全身の位置とヨーを更新する。
func (uc *RetargetUsecase) updateRootTransform(
	state *ActiveCharacterState, frame model.LandmarkFrame,
) {
	alpha := uc.config.SmoothingFactor

	hipCenter := uc.mapper.MapMean(frame, model.LandmarkLeftHip, model.LandmarkRightHip)
	shoulderCenter := uc.mapper.MapMean(frame, model.LandmarkLeftShoulder, model.LandmarkRightShoulder)
	if hipCenter != nil && shoulderCenter != nil {
		bodyCenter := mmath.MeanVec3(*hipCenter, *shoulderCenter)
		// 水平移動の増幅は全身位置のみに適用し、ボーン方向解決には影響させない
		bodyCenter = mmath.NewMVec3(
			bodyCenter.X*uc.config.HorizontalAmplification,
			bodyCenter.Y,
			bodyCenter.Z,
		)
		if !state.positionValid {
			state.position = bodyCenter
			state.positionValid = true
		} else {
			state.position = state.position.Lerped(bodyCenter, alpha)
		}
		state.rootNode.SetLocalPosition(state.position)
	}

	leftShoulder := uc.mapper.MapAt(frame, model.LandmarkLeftShoulder)
	rightShoulder := uc.mapper.MapAt(frame, model.LandmarkRightShoulder)
	if leftShoulder == nil || rightShoulder == nil {
		return
	}
	shoulderLine := rightShoulder.Subed(*leftShoulder)
	forward := mmath.MVec3UnitY.Cross(shoulderLine)
	if forward.Length() <= mmath.Epsilon {
		return
	}
	targetYaw := math.Atan2(forward.X, forward.Z)
	if !state.yawValid {
		state.yaw = targetYaw
		state.yawValid = true
	} else {
		// ±π境界をまたぐ場合も最短経路で補間する
		state.yaw = mmath.LerpRadian(state.yaw, targetYaw, alpha)
	}
	state.rootNode.SetLocalRotation(mmath.NewMQuaternionAxisAngle(mmath.MVec3UnitY, state.yaw))
}

// updateBones はルール表に従い全対象ボーンの回転を更新する。
// 未マッピングのボーンと解決不能なボーンは読み飛ばし、前回の回転を維持する。
func (uc *RetargetUsecase) updateBones(
	state *ActiveCharacterState, asset *model.SkeletonAsset, frame model.LandmarkFrame,
) {
	alpha := uc.config.SmoothingFactor
	for _, name := range model.CanonicalBoneNames() {
		rule, ruled := boneMappingRuleByName[name]
		if !ruled {
			continue
		}
		handle, mapped := asset.Bone(rule.Bone)
		if !mapped {
			continue
		}
		target, solved := uc.solveBoneTarget(rule, frame)
		if !solved {
			continue
		}

		smoothedRotation := target
		if prev, exists := state.prevOrientations[rule.Bone]; exists {
			smoothedRotation = prev.Slerp(target, alpha)
		}
		state.prevOrientations[rule.Bone] = smoothedRotation

		// レストポーズを外側に掛け、追跡回転をレスト基準の相対回転として合成する
		final := smoothedRotation
		if rest, exists := asset.RestPose(rule.Bone); exists {
			final = rest.Rotation.Muled(smoothedRotation)
		}
		handle.SetLocalRotation(final)
	}
}

// solveBoneTarget はルール種別ごとに目標回転を導出する。
// 依存ランドマークの欠落や退化方向は未解決として返し、呼び出し側で読み飛ばす。
func (uc *RetargetUsecase) solveBoneTarget(
	rule BoneMappingRule, frame model.LandmarkFrame,
) (mmath.MQuaternion, bool) {
	switch rule.Type {
	case BoneMappingRuleTypeLimb, BoneMappingRuleTypeHand,
		BoneMappingRuleTypeFoot, BoneMappingRuleTypeJoint:
		if len(rule.Landmarks) != 2 {
			return mmath.MQuaternionIdent, false
		}
		from := uc.mapper.MapAt(frame, rule.Landmarks[0])
		to := uc.mapper.MapAt(frame, rule.Landmarks[1])
		if from == nil || to == nil {
			return mmath.MQuaternionIdent, false
		}
		direction := to.Subed(*from)
		if direction.Length() <= mmath.Epsilon {
			return mmath.MQuaternionIdent, false
		}
		return mmath.NewMQuaternionRotate(rule.RestDirection, direction), true

	case BoneMappingRuleTypeChain:
		if len(rule.Landmarks) < 2 {
			return mmath.MQuaternionIdent, false
		}
		split := (len(rule.Landmarks) + 1) / 2
		base := uc.mapper.MapMean(frame, rule.Landmarks[:split]...)
		tip := uc.mapper.MapMean(frame, rule.Landmarks[split:]...)
		if base == nil || tip == nil {
			return mmath.MQuaternionIdent, false
		}
		direction := tip.Subed(*base)
		if direction.Length() <= mmath.Epsilon {
			return mmath.MQuaternionIdent, false
		}
		// 体幹は四肢より誤差に寛容なため、意図的に減衰させて控えめに回す
		full := mmath.NewMQuaternionRotate(rule.RestDirection, direction)
		return mmath.MQuaternionIdent.Slerp(full, rule.Damping), true
	}

	// center 種別は回転を導出しない(全身位置の算出にのみ使う)
	return mmath.MQuaternionIdent, false
}
