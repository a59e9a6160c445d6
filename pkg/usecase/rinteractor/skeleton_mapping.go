// 指示: miu200521358
package rinteractor

import (
	"fmt"

	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
)

// BuildSkeletonMapping はノード階層を1回だけ走査し、正準名→ボーンハンドル表と
// レストポーズスナップショットを構築する。読み込み時専用であり、フレーム処理中は再実行しない。
func BuildSkeletonMapping(modelID string, root *model.Node) (*model.SkeletonAsset, error) {
	if root == nil {
		return nil, fmt.Errorf("マッピング対象のルートノードが未設定です: %s", modelID)
	}

	bones := make(map[model.CanonicalBoneName]model.IBoneHandle)
	restPose := make(map[model.CanonicalBoneName]model.BoneTransform)
	collectBoneMappings(root, bones, restPose)

	return model.NewSkeletonAsset(modelID, root, bones, restPose)
}

// collectBoneMappings は能力契約ベースの走査でボーン対応を収集する。
func collectBoneMappings(
	node model.INode,
	bones map[model.CanonicalBoneName]model.IBoneHandle,
	restPose map[model.CanonicalBoneName]model.BoneTransform,
) {
	if node.IsSkinnedMesh() {
		if skinned, ok := node.(model.ISkinnedNode); ok {
			for _, bone := range skinned.SkinBones() {
				tryMapBone(bone, bones, restPose)
			}
		}
	}
	if node.IsBone() {
		tryMapBone(node, bones, restPose)
	}
	for _, child := range node.Children() {
		collectBoneMappings(child, bones, restPose)
	}
}

// tryMapBone は1ノードを正準名へ解決し、空き枠のみへ記録する。
// 同一走査内で同じ正準名へ解決された後続ノードは黙って無視する(先勝ち)。
func tryMapBone(
	node model.INode,
	bones map[model.CanonicalBoneName]model.IBoneHandle,
	restPose map[model.CanonicalBoneName]model.BoneTransform,
) {
	canonical, ok := resolveCanonicalBoneName(node.Name())
	if !ok {
		return
	}
	if _, exists := bones[canonical]; exists {
		return
	}
	handle, ok := node.(model.IBoneHandle)
	if !ok {
		return
	}
	bones[canonical] = handle
	restPose[canonical] = model.BoneTransform{
		Position: handle.LocalPosition(),
		Rotation: handle.LocalRotation(),
	}
}
