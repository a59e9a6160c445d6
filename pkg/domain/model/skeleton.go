// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/miu200521358/mu_pose2rig/pkg/domain/mmath"
	"github.com/tiendc/go-deepcopy"
)

// BoneTransform はボーンのローカル変換スナップショットを表す。
type BoneTransform struct {
	Position mmath.MVec3
	Rotation mmath.MQuaternion
}

// SkeletonAsset は読み込み済みモデル1体分のスケルトン資産を表す。
// 生成後、ボーン表とレストポーズは不変の参照データとなる。
type SkeletonAsset struct {
	modelID     string
	root        *Node
	bones       map[CanonicalBoneName]IBoneHandle
	restPose    map[CanonicalBoneName]BoneTransform
	hasSkeleton bool
}

// NewSkeletonAsset はスケルトン資産を生成する。レストポーズは深いコピーで取り込む。
func NewSkeletonAsset(
	modelID string,
	root *Node,
	bones map[CanonicalBoneName]IBoneHandle,
	restPose map[CanonicalBoneName]BoneTransform,
) (*SkeletonAsset, error) {
	if root == nil {
		return nil, fmt.Errorf("スケルトン資産のルートノードが未設定です: %s", modelID)
	}

	copiedBones := make(map[CanonicalBoneName]IBoneHandle, len(bones))
	for name, handle := range bones {
		copiedBones[name] = handle
	}

	copiedRestPose := make(map[CanonicalBoneName]BoneTransform, len(restPose))
	if err := deepcopy.Copy(&copiedRestPose, restPose); err != nil {
		return nil, fmt.Errorf("レストポーズのスナップショットに失敗しました: %w", err)
	}

	return &SkeletonAsset{
		modelID:     modelID,
		root:        root,
		bones:       copiedBones,
		restPose:    copiedRestPose,
		hasSkeleton: len(copiedBones) > 0,
	}, nil
}

// ModelID はモデル識別子を返す。
func (a *SkeletonAsset) ModelID() string {
	return a.modelID
}

// Root はルートノードを返す。
func (a *SkeletonAsset) Root() *Node {
	return a.root
}

// Bone は正準名に対応するボーンハンドルを返す。
func (a *SkeletonAsset) Bone(name CanonicalBoneName) (IBoneHandle, bool) {
	handle, exists := a.bones[name]
	return handle, exists
}

// BoneCount はマッピング済みボーン数を返す。
func (a *SkeletonAsset) BoneCount() int {
	return len(a.bones)
}

// RestPose は正準名に対応するレストポーズを返す。
func (a *SkeletonAsset) RestPose(name CanonicalBoneName) (BoneTransform, bool) {
	transform, exists := a.restPose[name]
	return transform, exists
}

// HasSkeleton は1本以上のボーンがマッピングされているか判定する。
func (a *SkeletonAsset) HasSkeleton() bool {
	return a.hasSkeleton
}
