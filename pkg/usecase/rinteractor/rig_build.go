// 指示: miu200521358
package rinteractor

import (
	"fmt"
	"math"

	"github.com/miu200521358/mu_pose2rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
)

const (
	// ProceduralStyleBlocks は直方体プリミティブのリグスタイルを表す。
	ProceduralStyleBlocks = "blocks"
	// ProceduralStyleOrbs は球プリミティブのリグスタイルを表す。
	ProceduralStyleOrbs = "orbs"
)

// proceduralBoneSpec は手続きリグの1ボーン定義を表す。
type proceduralBoneSpec struct {
	Name     model.CanonicalBoneName
	Parent   model.CanonicalBoneName
	Offset   mmath.MVec3
	Rotation mmath.MQuaternion
	Size     mmath.MVec3
}

// proceduralBoneSpecs は手続きリグのボーン定義列を表す。親が先に並ぶよう定義順を固定する。
// 上腕は腕が外側を向く非単位レスト回転を持ち、四肢の方向解決をモデル資産と同一契約にする。
var proceduralBoneSpecs = []proceduralBoneSpec{
	{Name: model.HIPS, Offset: mmath.NewMVec3(0, 0.90, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.26, 0.14, 0.14)},
	{Name: model.SPINE, Parent: model.HIPS, Offset: mmath.NewMVec3(0, 0.12, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.24, 0.14, 0.12)},
	{Name: model.CHEST, Parent: model.SPINE, Offset: mmath.NewMVec3(0, 0.16, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.28, 0.18, 0.13)},
	{Name: model.NECK, Parent: model.CHEST, Offset: mmath.NewMVec3(0, 0.22, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.08, 0.08, 0.08)},
	{Name: model.HEAD, Parent: model.NECK, Offset: mmath.NewMVec3(0, 0.10, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.18, 0.22, 0.20)},
	{Name: model.SHOULDER.Left(), Parent: model.CHEST, Offset: mmath.NewMVec3(0.07, 0.18, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.08, 0.06, 0.06)},
	{Name: model.UPPER_ARM.Left(), Parent: model.SHOULDER.Left(), Offset: mmath.NewMVec3(0.11, 0, 0), Rotation: mmath.NewMQuaternionAxisAngle(mmath.MVec3UnitZ, -math.Pi/2), Size: mmath.NewMVec3(0.26, 0.07, 0.07)},
	{Name: model.FORE_ARM.Left(), Parent: model.UPPER_ARM.Left(), Offset: mmath.NewMVec3(0.27, 0, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.24, 0.06, 0.06)},
	{Name: model.HAND.Left(), Parent: model.FORE_ARM.Left(), Offset: mmath.NewMVec3(0.25, 0, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.12, 0.04, 0.08)},
	{Name: model.SHOULDER.Right(), Parent: model.CHEST, Offset: mmath.NewMVec3(-0.07, 0.18, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.08, 0.06, 0.06)},
	{Name: model.UPPER_ARM.Right(), Parent: model.SHOULDER.Right(), Offset: mmath.NewMVec3(-0.11, 0, 0), Rotation: mmath.NewMQuaternionAxisAngle(mmath.MVec3UnitZ, math.Pi/2), Size: mmath.NewMVec3(0.26, 0.07, 0.07)},
	{Name: model.FORE_ARM.Right(), Parent: model.UPPER_ARM.Right(), Offset: mmath.NewMVec3(-0.27, 0, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.24, 0.06, 0.06)},
	{Name: model.HAND.Right(), Parent: model.FORE_ARM.Right(), Offset: mmath.NewMVec3(-0.25, 0, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.12, 0.04, 0.08)},
	{Name: model.UP_LEG.Left(), Parent: model.HIPS, Offset: mmath.NewMVec3(0.09, -0.04, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.10, 0.40, 0.10)},
	{Name: model.LEG.Left(), Parent: model.UP_LEG.Left(), Offset: mmath.NewMVec3(0, -0.42, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.08, 0.40, 0.08)},
	{Name: model.FOOT.Left(), Parent: model.LEG.Left(), Offset: mmath.NewMVec3(0, -0.42, 0.04), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.09, 0.06, 0.22)},
	{Name: model.UP_LEG.Right(), Parent: model.HIPS, Offset: mmath.NewMVec3(-0.09, -0.04, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.10, 0.40, 0.10)},
	{Name: model.LEG.Right(), Parent: model.UP_LEG.Right(), Offset: mmath.NewMVec3(0, -0.42, 0), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.08, 0.40, 0.08)},
	{Name: model.FOOT.Right(), Parent: model.LEG.Right(), Offset: mmath.NewMVec3(0, -0.42, 0.04), Rotation: mmath.MQuaternionIdent, Size: mmath.NewMVec3(0.09, 0.06, 0.22)},
}

// BuildProceduralRig はスタイル識別子から正準ボーン階層と原始形状を合成する。
// 生成結果はスケルトンマッパーが実資産から作るものと同一契約のノード階層となる。
func BuildProceduralRig(style string) (*model.Node, error) {
	shape, err := primitiveShapeByStyle(style)
	if err != nil {
		return nil, err
	}

	root := model.NewNode(fmt.Sprintf("procedural_%s", style), model.NodeKindGroup)
	built := make(map[model.CanonicalBoneName]*model.Node, len(proceduralBoneSpecs))
	for _, spec := range proceduralBoneSpecs {
		bone := model.NewNode(spec.Name.String(), model.NodeKindBone)
		bone.SetLocalPosition(spec.Offset)
		bone.SetLocalRotation(spec.Rotation)
		bone.SetPrimitive(&model.Primitive{
			Shape:  shape,
			Width:  spec.Size.X,
			Height: spec.Size.Y,
			Depth:  spec.Size.Z,
		})
		bone.SetMaterial(&model.Material{BaseColor: [3]float64{1, 1, 1}})

		if spec.Parent == "" {
			root.AddChild(bone)
		} else {
			parent, exists := built[spec.Parent]
			if !exists {
				return nil, fmt.Errorf("手続きリグの親ボーン定義が不正です: %s -> %s", spec.Name, spec.Parent)
			}
			parent.AddChild(bone)
		}
		built[spec.Name] = bone
	}

	return root, nil
}

// primitiveShapeByStyle はスタイル識別子から原始形状名を解決する。
func primitiveShapeByStyle(style string) (string, error) {
	switch style {
	case ProceduralStyleBlocks:
		return "box", nil
	case ProceduralStyleOrbs:
		return "sphere", nil
	default:
		return "", fmt.Errorf("未対応の手続きリグスタイルです: %s", style)
	}
}
