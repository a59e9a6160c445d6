// 指示: miu200521358
package model

import "github.com/miu200521358/mu_pose2rig/pkg/domain/mmath"

// NodeKind はノード種別を表す。
type NodeKind string

const (
	// NodeKindGroup は変換のみを持つグループノードを表す。
	NodeKindGroup NodeKind = "group"
	// NodeKindBone はボーンノードを表す。
	NodeKindBone NodeKind = "bone"
	// NodeKindSkinnedMesh はスキンメッシュノードを表す。
	NodeKindSkinnedMesh NodeKind = "skinned_mesh"
	// NodeKindMesh は非スキンの可視メッシュノードを表す。
	NodeKindMesh NodeKind = "mesh"
)

// INode はノード階層走査の能力契約を表す。
// 走査と名前解決を特定の3D形式ローダーのノード型から切り離すための契約。
type INode interface {
	// Name はノード名を返す。
	Name() string
	// IsBone はボーンノードか判定する。
	IsBone() bool
	// IsSkinnedMesh はスキンメッシュノードか判定する。
	IsSkinnedMesh() bool
	// Children は子ノード列を返す。
	Children() []INode
}

// IBoneHandle はボーンのローカル変換への書き込み契約を表す。
type IBoneHandle interface {
	// Name はボーン名を返す。
	Name() string
	// LocalPosition はローカル位置を返す。
	LocalPosition() mmath.MVec3
	// LocalRotation はローカル回転を返す。
	LocalRotation() mmath.MQuaternion
	// SetLocalRotation はローカル回転を書き込む。位置は変更しない。
	SetLocalRotation(rotation mmath.MQuaternion)
}

// ISkinnedNode はスキンメッシュが抱えるスケルトンボーン列の公開契約を表す。
type ISkinnedNode interface {
	INode
	// SkinBones はスキンメッシュの参照するボーン列を返す。
	SkinBones() []INode
}

// Primitive はボーンへ取り付ける原始形状を表す。
type Primitive struct {
	Shape  string
	Width  float64
	Height float64
	Depth  float64
}

// Material はメッシュの見た目パラメータを表す。
type Material struct {
	BaseColor [3]float64
}

// Node はノード階層の実装を表す。
type Node struct {
	name      string
	kind      NodeKind
	position  mmath.MVec3
	rotation  mmath.MQuaternion
	scale     float64
	parent    *Node
	children  []*Node
	skinBones []*Node
	primitive *Primitive
	material  *Material
}

// NewNode はノードを生成する。
func NewNode(name string, kind NodeKind) *Node {
	return &Node{
		name:     name,
		kind:     kind,
		rotation: mmath.MQuaternionIdent,
		scale:    1.0,
	}
}

// Name はノード名を返す。
func (n *Node) Name() string {
	return n.name
}

// Kind はノード種別を返す。
func (n *Node) Kind() NodeKind {
	return n.kind
}

// IsBone はボーンノードか判定する。
func (n *Node) IsBone() bool {
	return n.kind == NodeKindBone
}

// IsSkinnedMesh はスキンメッシュノードか判定する。
func (n *Node) IsSkinnedMesh() bool {
	return n.kind == NodeKindSkinnedMesh
}

// Children は子ノード列を返す。
func (n *Node) Children() []INode {
	children := make([]INode, len(n.children))
	for i, child := range n.children {
		children[i] = child
	}
	return children
}

// ChildNodes は子ノード列を実装型のまま返す。
func (n *Node) ChildNodes() []*Node {
	return n.children
}

// AddChild は子ノードを追加する。
func (n *Node) AddChild(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// Parent は親ノードを返す。
func (n *Node) Parent() *Node {
	return n.parent
}

// SkinBones はスキンメッシュの参照するボーン列を返す。
func (n *Node) SkinBones() []INode {
	bones := make([]INode, len(n.skinBones))
	for i, bone := range n.skinBones {
		bones[i] = bone
	}
	return bones
}

// BindSkinBones はスキンメッシュへボーン列を紐付ける。
func (n *Node) BindSkinBones(bones []*Node) {
	n.skinBones = bones
}

// LocalPosition はローカル位置を返す。
func (n *Node) LocalPosition() mmath.MVec3 {
	return n.position
}

// SetLocalPosition はローカル位置を設定する。
func (n *Node) SetLocalPosition(position mmath.MVec3) {
	n.position = position
}

// LocalRotation はローカル回転を返す。
func (n *Node) LocalRotation() mmath.MQuaternion {
	return n.rotation
}

// SetLocalRotation はローカル回転を書き込む。位置は変更しない。
func (n *Node) SetLocalRotation(rotation mmath.MQuaternion) {
	n.rotation = rotation
}

// Scale は等方スケールを返す。
func (n *Node) Scale() float64 {
	return n.scale
}

// SetScale は等方スケールを設定する。
func (n *Node) SetScale(scale float64) {
	n.scale = scale
}

// Primitive は取り付け形状を返す。未設定は nil。
func (n *Node) Primitive() *Primitive {
	return n.primitive
}

// SetPrimitive は取り付け形状を設定する。
func (n *Node) SetPrimitive(primitive *Primitive) {
	n.primitive = primitive
}

// Material は材質を返す。未設定は nil。
func (n *Node) Material() *Material {
	return n.material
}

// SetMaterial は材質を設定する。
func (n *Node) SetMaterial(material *Material) {
	n.material = material
}

// WorldPosition は親階層を辿ってワールド位置を返す。
// 各ノードの平行移動は親の累積スケールと累積回転の影響を受ける。
func (n *Node) WorldPosition() mmath.MVec3 {
	if n.parent == nil {
		return n.position
	}
	parentWorld := n.parent.WorldPosition()
	scaled := n.position.MuledScalar(n.parent.worldScale())
	return parentWorld.Added(n.parent.worldRotation().Rotated(scaled))
}

// worldScale は親階層を辿った累積スケールを返す。
func (n *Node) worldScale() float64 {
	if n.parent == nil {
		return n.scale
	}
	return n.parent.worldScale() * n.scale
}

// worldRotation は親階層を辿った累積回転を返す。
func (n *Node) worldRotation() mmath.MQuaternion {
	if n.parent == nil {
		return n.rotation
	}
	return n.parent.worldRotation().Muled(n.rotation)
}

// Walk は自身を含む全ノードへ深さ優先で visit を適用する。
func (n *Node) Walk(visit func(node *Node)) {
	visit(n)
	for _, child := range n.children {
		child.Walk(visit)
	}
}
