// 指示: miu200521358
package rinteractor

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_pose2rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
)

// buildMixamoTestTree は mixamo 風の命名を持つ最小ボーン階層を構築する。
func buildMixamoTestTree() *model.Node {
	root := model.NewNode("Armature", model.NodeKindGroup)
	hips := model.NewNode("mixamorig:Hips", model.NodeKindBone)
	spine := model.NewNode("mixamorig:Spine", model.NodeKindBone)
	leftArm := model.NewNode("mixamorig:LeftArm", model.NodeKindBone)
	leftForeArm := model.NewNode("mixamorig:LeftForeArm", model.NodeKindBone)

	hips.SetLocalPosition(mmath.NewMVec3(0, 0.9, 0))
	leftArm.SetLocalRotation(mmath.NewMQuaternionAxisAngle(mmath.MVec3UnitZ, -math.Pi/2))

	root.AddChild(hips)
	hips.AddChild(spine)
	spine.AddChild(leftArm)
	leftArm.AddChild(leftForeArm)
	return root
}

func TestBuildSkeletonMappingResolvesBoneNodes(t *testing.T) {
	asset, err := BuildSkeletonMapping("test", buildMixamoTestTree())
	if err != nil {
		t.Fatalf("unexpected mapping error: %v", err)
	}

	if !asset.HasSkeleton() {
		t.Fatalf("expected skeleton to be detected")
	}
	if asset.BoneCount() != 4 {
		t.Fatalf("unexpected bone count: got=%d want=4", asset.BoneCount())
	}
	handle, ok := asset.Bone(model.UPPER_ARM.Left())
	if !ok {
		t.Fatalf("expected leftUpperArm mapping")
	}
	if handle.Name() != "mixamorig:LeftArm" {
		t.Fatalf("unexpected mapped node: got=%q", handle.Name())
	}
}

func TestBuildSkeletonMappingSnapshotsRestPose(t *testing.T) {
	root := buildMixamoTestTree()
	asset, err := BuildSkeletonMapping("test", root)
	if err != nil {
		t.Fatalf("unexpected mapping error: %v", err)
	}

	handle, _ := asset.Bone(model.UPPER_ARM.Left())
	wantRest := handle.LocalRotation()

	// マッピング後にボーンを回してもレストポーズは初期値のまま残る
	handle.SetLocalRotation(mmath.NewMQuaternionAxisAngle(mmath.MVec3UnitY, 1.0))
	rest, ok := asset.RestPose(model.UPPER_ARM.Left())
	if !ok {
		t.Fatalf("expected rest pose snapshot")
	}
	if !rest.Rotation.NearEquals(wantRest, 1e-9) {
		t.Fatalf("expected rest pose to stay immutable: got=%+v want=%+v", rest.Rotation, wantRest)
	}
}

func TestBuildSkeletonMappingFirstMatchWins(t *testing.T) {
	root := model.NewNode("Armature", model.NodeKindGroup)
	first := model.NewNode("LeftArm", model.NodeKindBone)
	second := model.NewNode("LeftArm_twist", model.NodeKindBone)
	root.AddChild(first)
	root.AddChild(second)

	asset, err := BuildSkeletonMapping("test", root)
	if err != nil {
		t.Fatalf("unexpected mapping error: %v", err)
	}
	handle, ok := asset.Bone(model.UPPER_ARM.Left())
	if !ok {
		t.Fatalf("expected leftUpperArm mapping")
	}
	if handle.Name() != "LeftArm" {
		t.Fatalf("expected first matching node to win: got=%q", handle.Name())
	}
}

func TestBuildSkeletonMappingCollectsSkinBones(t *testing.T) {
	root := model.NewNode("Scene", model.NodeKindGroup)
	mesh := model.NewNode("Body", model.NodeKindSkinnedMesh)
	hips := model.NewNode("Hips", model.NodeKindBone)
	mesh.BindSkinBones([]*model.Node{hips})
	root.AddChild(mesh)

	asset, err := BuildSkeletonMapping("test", root)
	if err != nil {
		t.Fatalf("unexpected mapping error: %v", err)
	}
	if _, ok := asset.Bone(model.HIPS); !ok {
		t.Fatalf("expected skin bone to be mapped")
	}
}

func TestBuildSkeletonMappingWithoutBones(t *testing.T) {
	root := model.NewNode("Scene", model.NodeKindGroup)
	root.AddChild(model.NewNode("Statue", model.NodeKindMesh))

	asset, err := BuildSkeletonMapping("test", root)
	if err != nil {
		t.Fatalf("unexpected mapping error: %v", err)
	}
	if asset.HasSkeleton() {
		t.Fatalf("expected no skeleton for bone-less tree")
	}
	if asset.BoneCount() != 0 {
		t.Fatalf("unexpected bone count: got=%d", asset.BoneCount())
	}
}

func TestBuildSkeletonMappingNilRoot(t *testing.T) {
	if _, err := BuildSkeletonMapping("test", nil); err == nil {
		t.Fatalf("expected error for nil root")
	}
}
