// 指示: miu200521358
package rinteractor

import (
	"github.com/miu200521358/mu_pose2rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
)

// BoneMappingRuleType はボーン対応ルールの種別を表す。
type BoneMappingRuleType string

const (
	// BoneMappingRuleTypeCenter は複数ランドマークの平均位置を表す。回転は導出しない。
	BoneMappingRuleTypeCenter BoneMappingRuleType = "center"
	// BoneMappingRuleTypeChain は系列をまたぐ方向から減衰付きの傾きを導出する。
	BoneMappingRuleTypeChain BoneMappingRuleType = "chain"
	// BoneMappingRuleTypeLimb は2ランドマーク間の方向から回転を導出する。
	BoneMappingRuleTypeLimb BoneMappingRuleType = "limb"
	// BoneMappingRuleTypeHand は手首近傍の方向を代理に使う末端ルールを表す。
	BoneMappingRuleTypeHand BoneMappingRuleType = "hand"
	// BoneMappingRuleTypeFoot は足首近傍の方向を代理に使う末端ルールを表す。
	BoneMappingRuleTypeFoot BoneMappingRuleType = "foot"
	// BoneMappingRuleTypeJoint は近傍方向を代理に使う関節ルールを表す。
	BoneMappingRuleTypeJoint BoneMappingRuleType = "joint"
)

// BoneMappingRule はランドマークと正準ボーンの宣言的対応を表す。静的設定であり変更しない。
type BoneMappingRule struct {
	Bone          model.CanonicalBoneName
	Type          BoneMappingRuleType
	Landmarks     []int
	RestDirection mmath.MVec3
	Damping       float64
}

// boneMappingRules はボーン対応ルール表を表す。
// chain 種別のランドマーク列は前半の平均を基点、後半の平均を先端として扱う。
var boneMappingRules = []BoneMappingRule{
	{
		Bone: model.HIPS, Type: BoneMappingRuleTypeCenter,
		Landmarks: []int{model.LandmarkLeftHip, model.LandmarkRightHip},
	},
	{
		Bone: model.SPINE, Type: BoneMappingRuleTypeChain,
		Landmarks: []int{
			model.LandmarkLeftHip, model.LandmarkRightHip,
			model.LandmarkLeftShoulder, model.LandmarkRightShoulder,
		},
		RestDirection: mmath.MVec3UnitY, Damping: 0.4,
	},
	{
		Bone: model.SPINE1, Type: BoneMappingRuleTypeChain,
		Landmarks: []int{
			model.LandmarkLeftHip, model.LandmarkRightHip,
			model.LandmarkLeftShoulder, model.LandmarkRightShoulder,
		},
		RestDirection: mmath.MVec3UnitY, Damping: 0.35,
	},
	{
		Bone: model.SPINE2, Type: BoneMappingRuleTypeChain,
		Landmarks: []int{
			model.LandmarkLeftHip, model.LandmarkRightHip,
			model.LandmarkLeftShoulder, model.LandmarkRightShoulder,
		},
		RestDirection: mmath.MVec3UnitY, Damping: 0.3,
	},
	{
		Bone: model.CHEST, Type: BoneMappingRuleTypeChain,
		Landmarks: []int{
			model.LandmarkLeftHip, model.LandmarkRightHip,
			model.LandmarkLeftShoulder, model.LandmarkRightShoulder,
		},
		RestDirection: mmath.MVec3UnitY, Damping: 0.4,
	},
	{
		Bone: model.NECK, Type: BoneMappingRuleTypeChain,
		Landmarks: []int{
			model.LandmarkLeftShoulder, model.LandmarkRightShoulder,
			model.LandmarkNose,
		},
		RestDirection: mmath.MVec3UnitY, Damping: 0.5,
	},
	{
		Bone: model.HEAD, Type: BoneMappingRuleTypeChain,
		Landmarks: []int{
			model.LandmarkLeftShoulder, model.LandmarkRightShoulder,
			model.LandmarkNose,
		},
		RestDirection: mmath.MVec3UnitY, Damping: 0.5,
	},
	{
		Bone: model.UPPER_ARM.Left(), Type: BoneMappingRuleTypeLimb,
		Landmarks:     []int{model.LandmarkLeftShoulder, model.LandmarkLeftElbow},
		RestDirection: mmath.MVec3UnitX,
	},
	{
		Bone: model.FORE_ARM.Left(), Type: BoneMappingRuleTypeLimb,
		Landmarks:     []int{model.LandmarkLeftElbow, model.LandmarkLeftWrist},
		RestDirection: mmath.MVec3UnitX,
	},
	{
		Bone: model.HAND.Left(), Type: BoneMappingRuleTypeHand,
		Landmarks:     []int{model.LandmarkLeftWrist, model.LandmarkLeftIndex},
		RestDirection: mmath.MVec3UnitX,
	},
	{
		Bone: model.UPPER_ARM.Right(), Type: BoneMappingRuleTypeLimb,
		Landmarks:     []int{model.LandmarkRightShoulder, model.LandmarkRightElbow},
		RestDirection: mmath.NewMVec3(-1, 0, 0),
	},
	{
		Bone: model.FORE_ARM.Right(), Type: BoneMappingRuleTypeLimb,
		Landmarks:     []int{model.LandmarkRightElbow, model.LandmarkRightWrist},
		RestDirection: mmath.NewMVec3(-1, 0, 0),
	},
	{
		Bone: model.HAND.Right(), Type: BoneMappingRuleTypeHand,
		Landmarks:     []int{model.LandmarkRightWrist, model.LandmarkRightIndex},
		RestDirection: mmath.NewMVec3(-1, 0, 0),
	},
	{
		Bone: model.UP_LEG.Left(), Type: BoneMappingRuleTypeLimb,
		Landmarks:     []int{model.LandmarkLeftHip, model.LandmarkLeftKnee},
		RestDirection: mmath.MVec3UnitYNeg,
	},
	{
		Bone: model.LEG.Left(), Type: BoneMappingRuleTypeLimb,
		Landmarks:     []int{model.LandmarkLeftKnee, model.LandmarkLeftAnkle},
		RestDirection: mmath.MVec3UnitYNeg,
	},
	{
		Bone: model.FOOT.Left(), Type: BoneMappingRuleTypeFoot,
		Landmarks:     []int{model.LandmarkLeftAnkle, model.LandmarkLeftFootIndex},
		RestDirection: mmath.MVec3UnitZ,
	},
	{
		Bone: model.UP_LEG.Right(), Type: BoneMappingRuleTypeLimb,
		Landmarks:     []int{model.LandmarkRightHip, model.LandmarkRightKnee},
		RestDirection: mmath.MVec3UnitYNeg,
	},
	{
		Bone: model.LEG.Right(), Type: BoneMappingRuleTypeLimb,
		Landmarks:     []int{model.LandmarkRightKnee, model.LandmarkRightAnkle},
		RestDirection: mmath.MVec3UnitYNeg,
	},
	{
		Bone: model.FOOT.Right(), Type: BoneMappingRuleTypeFoot,
		Landmarks:     []int{model.LandmarkRightAnkle, model.LandmarkRightFootIndex},
		RestDirection: mmath.MVec3UnitZ,
	},
}

// boneMappingRuleByName は正準名からルールを引く辞書を表す。
var boneMappingRuleByName = buildBoneMappingRuleByName()

// buildBoneMappingRuleByName はルール表から正準名辞書を構築する。
func buildBoneMappingRuleByName() map[model.CanonicalBoneName]BoneMappingRule {
	byName := make(map[model.CanonicalBoneName]BoneMappingRule, len(boneMappingRules))
	for _, rule := range boneMappingRules {
		byName[rule.Bone] = rule
	}
	return byName
}
