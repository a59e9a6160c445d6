// 指示: miu200521358
package rinteractor

import (
	"testing"

	"github.com/miu200521358/mu_pose2rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
)

func TestBuildProceduralRigBlocksHierarchy(t *testing.T) {
	root, err := BuildProceduralRig(ProceduralStyleBlocks)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	boneCount := 0
	var leftFoot *model.Node
	root.Walk(func(node *model.Node) {
		if node.IsBone() {
			boneCount++
		}
		if node.Name() == model.FOOT.Left().String() {
			leftFoot = node
		}
	})
	if boneCount != len(proceduralBoneSpecs) {
		t.Fatalf("unexpected bone count: got=%d want=%d", boneCount, len(proceduralBoneSpecs))
	}
	if leftFoot == nil {
		t.Fatalf("expected leftFoot bone")
	}
	if leftFoot.Parent() == nil || leftFoot.Parent().Name() != model.LEG.Left().String() {
		t.Fatalf("unexpected leftFoot parent: got=%+v", leftFoot.Parent())
	}
	if leftFoot.Primitive() == nil || leftFoot.Primitive().Shape != "box" {
		t.Fatalf("expected box primitive for blocks style: got=%+v", leftFoot.Primitive())
	}
}

func TestBuildProceduralRigOrbsUsesSpheres(t *testing.T) {
	root, err := BuildProceduralRig(ProceduralStyleOrbs)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	root.Walk(func(node *model.Node) {
		if !node.IsBone() {
			return
		}
		if node.Primitive() == nil || node.Primitive().Shape != "sphere" {
			t.Fatalf("expected sphere primitive: node=%s got=%+v", node.Name(), node.Primitive())
		}
	})
}

func TestBuildProceduralRigUpperArmRestRotation(t *testing.T) {
	root, err := BuildProceduralRig(ProceduralStyleBlocks)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	var leftUpperArm *model.Node
	root.Walk(func(node *model.Node) {
		if node.Name() == model.UPPER_ARM.Left().String() {
			leftUpperArm = node
		}
	})
	if leftUpperArm == nil {
		t.Fatalf("expected leftUpperArm bone")
	}
	// 上腕のレスト回転は非単位。実資産と同じ相対回転契約の回帰検査。
	if leftUpperArm.LocalRotation().NearEquals(mmath.MQuaternionIdent, 1e-9) {
		t.Fatalf("expected non-identity rest rotation for upper arm")
	}
}

func TestBuildProceduralRigMapsAllCanonicalBones(t *testing.T) {
	root, err := BuildProceduralRig(ProceduralStyleBlocks)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	asset, err := BuildSkeletonMapping("procedural", root)
	if err != nil {
		t.Fatalf("unexpected mapping error: %v", err)
	}

	for _, spec := range proceduralBoneSpecs {
		handle, ok := asset.Bone(spec.Name)
		if !ok {
			t.Fatalf("expected canonical bone to map: %s", spec.Name)
		}
		if handle.Name() != spec.Name.String() {
			t.Fatalf("unexpected node for %s: got=%q", spec.Name, handle.Name())
		}
	}
}

func TestBuildProceduralRigUnknownStyle(t *testing.T) {
	if _, err := BuildProceduralRig("wireframe"); err == nil {
		t.Fatalf("expected error for unknown style")
	}
}
