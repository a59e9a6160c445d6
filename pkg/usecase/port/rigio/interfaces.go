// 指示: miu200521358
package rigio

import "github.com/miu200521358/mu_pose2rig/pkg/domain/model"

// IAssetLoader は外部3D形式ローダーへの読み込み契約を表す。
// 形式固有の解析は外部ローダーの責務であり、本体はノード階層のみを受け取る。
type IAssetLoader interface {
	// CanLoad は指定パスを読み込めるか判定する。
	CanLoad(path string) bool
	// Load は資産を解析してルートノードを返す。
	Load(path string) (*model.Node, error)
}
