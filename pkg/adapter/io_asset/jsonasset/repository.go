// 指示: miu200521358
package jsonasset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_pose2rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
)

// nodeDocument はJSON資産の1ノード定義を表す。
type nodeDocument struct {
	Name      string             `json:"name"`
	Kind      string             `json:"kind"`
	Position  [3]float64         `json:"position"`
	Rotation  [4]float64         `json:"rotation"` // x, y, z, w の順。全成分ゼロは単位回転として扱う。
	Scale     float64            `json:"scale"`
	Primitive *primitiveDocument `json:"primitive"`
	Material  *materialDocument  `json:"material"`
	SkinBones []string           `json:"skinBones"`
	Children  []nodeDocument     `json:"children"`
}

// primitiveDocument はJSON資産の原始形状定義を表す。
type primitiveDocument struct {
	Shape  string  `json:"shape"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// materialDocument はJSON資産の材質定義を表す。
type materialDocument struct {
	BaseColor [3]float64 `json:"baseColor"`
}

// assetDocument はJSON資産のルート構造を表す。
type assetDocument struct {
	Name string        `json:"name"`
	Root *nodeDocument `json:"root"`
}

// JsonAssetRepository はノード階層をJSON形式で読み込むリポジトリを表す。
type JsonAssetRepository struct{}

// NewJsonAssetRepository はJsonAssetRepositoryを生成する。
func NewJsonAssetRepository() *JsonAssetRepository {
	return &JsonAssetRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *JsonAssetRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// InferName はパスから表示名を推定する。
func (r *JsonAssetRepository) InferName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// Load はJSON資産を読み込み、ノード階層を構築する。
func (r *JsonAssetRepository) Load(path string) (*model.Node, error) {
	if !r.CanLoad(path) {
		return nil, fmt.Errorf("JSON資産の拡張子が不正です: %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("JSON資産の読み取りに失敗しました: %s: %w", path, err)
	}

	doc := assetDocument{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("JSON資産の解析に失敗しました: %s: %w", path, err)
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("JSON資産にルートノードがありません: %s", path)
	}

	byName := map[string]*model.Node{}
	root, err := buildNode(doc.Root, byName)
	if err != nil {
		return nil, fmt.Errorf("JSON資産のノード構築に失敗しました: %s: %w", path, err)
	}
	if err := bindSkinBones(doc.Root, byName); err != nil {
		return nil, fmt.Errorf("JSON資産のスキンボーン解決に失敗しました: %s: %w", path, err)
	}
	return root, nil
}

// buildNode はノード定義を再帰的に実体化し、名前辞書へ登録する。
func buildNode(doc *nodeDocument, byName map[string]*model.Node) (*model.Node, error) {
	kind, err := nodeKindOf(doc.Kind)
	if err != nil {
		return nil, err
	}

	node := model.NewNode(doc.Name, kind)
	node.SetLocalPosition(mmath.NewMVec3(doc.Position[0], doc.Position[1], doc.Position[2]))
	node.SetLocalRotation(rotationOf(doc.Rotation))
	if doc.Scale > 0 {
		node.SetScale(doc.Scale)
	}
	if doc.Primitive != nil {
		node.SetPrimitive(&model.Primitive{
			Shape:  doc.Primitive.Shape,
			Width:  doc.Primitive.Width,
			Height: doc.Primitive.Height,
			Depth:  doc.Primitive.Depth,
		})
	}
	if doc.Material != nil {
		node.SetMaterial(&model.Material{BaseColor: doc.Material.BaseColor})
	}

	if doc.Name != "" {
		if _, exists := byName[doc.Name]; exists {
			return nil, fmt.Errorf("ノード名が重複しています: %s", doc.Name)
		}
		byName[doc.Name] = node
	}

	for i := range doc.Children {
		child, err := buildNode(&doc.Children[i], byName)
		if err != nil {
			return nil, err
		}
		node.AddChild(child)
	}
	return node, nil
}

// bindSkinBones はスキンメッシュのボーン名参照を実ノードへ解決する。
func bindSkinBones(doc *nodeDocument, byName map[string]*model.Node) error {
	if len(doc.SkinBones) > 0 {
		mesh, exists := byName[doc.Name]
		if !exists {
			return fmt.Errorf("スキンボーンを持つノードに名前がありません: kind=%s", doc.Kind)
		}
		bones := make([]*model.Node, len(doc.SkinBones))
		for i, boneName := range doc.SkinBones {
			bone, exists := byName[boneName]
			if !exists {
				return fmt.Errorf("スキンボーンが見つかりません: %s", boneName)
			}
			bones[i] = bone
		}
		mesh.BindSkinBones(bones)
	}
	for i := range doc.Children {
		if err := bindSkinBones(&doc.Children[i], byName); err != nil {
			return err
		}
	}
	return nil
}

// nodeKindOf はJSON上の種別名をノード種別へ解決する。
func nodeKindOf(kind string) (model.NodeKind, error) {
	switch model.NodeKind(kind) {
	case model.NodeKindGroup, model.NodeKindBone, model.NodeKindSkinnedMesh, model.NodeKindMesh:
		return model.NodeKind(kind), nil
	case "":
		return model.NodeKindGroup, nil
	default:
		return "", fmt.Errorf("未対応のノード種別です: %s", kind)
	}
}

// rotationOf は回転成分を四元数へ解決する。全成分ゼロは単位回転として扱う。
func rotationOf(rotation [4]float64) mmath.MQuaternion {
	if rotation[0] == 0 && rotation[1] == 0 && rotation[2] == 0 && rotation[3] == 0 {
		return mmath.MQuaternionIdent
	}
	return mmath.NewMQuaternion(rotation[3], rotation[0], rotation[1], rotation[2]).Normalized()
}
