// 指示: miu200521358
package rinteractor

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/miu200521358/mu_pose2rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
	"github.com/miu200521358/mu_pose2rig/pkg/usecase/port/rigio"
)

// ModelSource はモデルIDの解決先を表す。Path か ProceduralStyle のどちらか一方を指定する。
type ModelSource struct {
	Path            string
	ProceduralStyle string
}

// loadState はモデルIDごとの読み込み状態を表す。
type loadState string

const (
	// loadStateLoading は読み込み中状態を表す。
	loadStateLoading loadState = "loading"
	// loadStateReady は読み込み完了状態を表す。
	loadStateReady loadState = "ready"
	// loadStateFailed は読み込み失敗状態を表す。再読み込み可能として扱う。
	loadStateFailed loadState = "failed"
)

// cacheEntry はモデルIDごとのキャッシュ項目を表す。
type cacheEntry struct {
	state loadState
	asset *model.SkeletonAsset
	err   error
	done  chan struct{}
}

// ModelAssetCacheDeps はモデル資産キャッシュの依存を表す。
type ModelAssetCacheDeps struct {
	AssetLoader         rigio.IAssetLoader
	ProgressReporter    ILoadProgressReporter
	Sources             map[string]ModelSource
	TargetHeight        float64
	BrightnessByModelID map[string]float64
}

// ModelAssetCache はモデルIDごとのスケルトン資産キャッシュを表す。
// 描画コンテキスト1つにつき1インスタンスを生成し、モジュール全域の共有辞書は持たない。
// 同一モデルIDの読み込みは常に高々1件だけ進行し、後続の要求は進行中の結果へ合流する。
type ModelAssetCache struct {
	instanceID          uuid.UUID
	loader              rigio.IAssetLoader
	reporter            ILoadProgressReporter
	sources             map[string]ModelSource
	targetHeight        float64
	brightnessByModelID map[string]float64

	mu         sync.Mutex
	entries    map[string]*cacheEntry
	activeID   string
	loadCounts map[string]int
	disposed   bool
}

// NewModelAssetCache はモデル資産キャッシュを生成する。
func NewModelAssetCache(deps ModelAssetCacheDeps) *ModelAssetCache {
	targetHeight := deps.TargetHeight
	if targetHeight <= 0 {
		targetHeight = defaultTargetHeight
	}
	return &ModelAssetCache{
		instanceID:          uuid.New(),
		loader:              deps.AssetLoader,
		reporter:            deps.ProgressReporter,
		sources:             deps.Sources,
		targetHeight:        targetHeight,
		brightnessByModelID: deps.BrightnessByModelID,
		entries:             map[string]*cacheEntry{},
		loadCounts:          map[string]int{},
	}
}

// InstanceID はキャッシュインスタンス識別子を返す。
func (c *ModelAssetCache) InstanceID() string {
	return c.instanceID.String()
}

// Load はモデルIDの資産を読み込み、アクティブ化する。
// 冪等であり、同時・反復呼び出しに対して安全。未登録IDは診断通知のみの no-op となる。
// 失敗はキャッシュへ恒久化されず、次回呼び出しで再試行される。
func (c *ModelAssetCache) Load(modelID string) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return fmt.Errorf("破棄済みのモデル資産キャッシュです: %s", c.instanceID)
	}
	source, registered := c.sources[modelID]
	if !registered {
		c.mu.Unlock()
		reportLoadProgress(c.reporter, LoadProgressEvent{
			Type:    LoadProgressEventTypeUnknownModelID,
			ModelID: modelID,
			CacheID: c.instanceID.String(),
			Message: fmt.Sprintf("未登録のモデルIDです: %s", modelID),
		})
		return nil
	}

	if entry, exists := c.entries[modelID]; exists {
		switch entry.state {
		case loadStateReady:
			c.activateLocked(modelID)
			c.mu.Unlock()
			return nil
		case loadStateLoading:
			// 進行中の読み込みへ合流する。同一IDの二重読み込みは開始しない。
			done := entry.done
			c.mu.Unlock()
			<-done
			return c.adoptFinishedLoad(modelID)
		case loadStateFailed:
			// 失敗は恒久化しない。新規読み込みとして再試行する。
		}
	}

	entry := &cacheEntry{state: loadStateLoading, done: make(chan struct{})}
	c.entries[modelID] = entry
	c.loadCounts[modelID]++
	c.mu.Unlock()

	asset, err := c.performLoad(modelID, source)

	c.mu.Lock()
	if err != nil {
		entry.state = loadStateFailed
		entry.err = err
		close(entry.done)
		c.mu.Unlock()
		reportLoadProgress(c.reporter, LoadProgressEvent{
			Type:    LoadProgressEventTypeLoadFailed,
			ModelID: modelID,
			CacheID: c.instanceID.String(),
			Message: err.Error(),
		})
		return err
	}
	entry.state = loadStateReady
	entry.asset = asset
	close(entry.done)
	c.activateLocked(modelID)
	c.mu.Unlock()

	reportLoadProgress(c.reporter, LoadProgressEvent{
		Type:      LoadProgressEventTypeActivated,
		ModelID:   modelID,
		CacheID:   c.instanceID.String(),
		BoneCount: asset.BoneCount(),
	})
	return nil
}

// adoptFinishedLoad は合流先の読み込み結果を取り込む。
// 合流待ちの間に失敗した読み込みが再試行で差し替えられていた場合は、
// その新しい読み込みの完了まで待ち直し、最終結果のみを返す。
func (c *ModelAssetCache) adoptFinishedLoad(modelID string) error {
	for {
		c.mu.Lock()
		entry, exists := c.entries[modelID]
		if !exists {
			c.mu.Unlock()
			return fmt.Errorf("読み込み結果が見つかりません: %s", modelID)
		}
		if entry.state == loadStateLoading {
			done := entry.done
			c.mu.Unlock()
			<-done
			continue
		}
		if entry.state == loadStateReady {
			c.activateLocked(modelID)
			c.mu.Unlock()
			return nil
		}
		err := entry.err
		c.mu.Unlock()
		return err
	}
}

// performLoad は資産の解析からスケルトンマッピングまでの読み込み本体を実行する。
func (c *ModelAssetCache) performLoad(modelID string, source ModelSource) (*model.SkeletonAsset, error) {
	reportLoadProgress(c.reporter, LoadProgressEvent{
		Type:    LoadProgressEventTypeLoadStarted,
		ModelID: modelID,
		CacheID: c.instanceID.String(),
	})

	root, err := c.parseAsset(modelID, source)
	if err != nil {
		return nil, err
	}
	reportLoadProgress(c.reporter, LoadProgressEvent{
		Type:    LoadProgressEventTypeAssetParsed,
		ModelID: modelID,
		CacheID: c.instanceID.String(),
	})

	normalizeAssetScale(root, c.targetHeight)
	reportLoadProgress(c.reporter, LoadProgressEvent{
		Type:    LoadProgressEventTypeScaleNormalized,
		ModelID: modelID,
		CacheID: c.instanceID.String(),
	})

	asset, err := BuildSkeletonMapping(modelID, root)
	if err != nil {
		return nil, err
	}
	c.applyMaterialBrightness(modelID, root)
	reportLoadProgress(c.reporter, LoadProgressEvent{
		Type:      LoadProgressEventTypeSkeletonMapped,
		ModelID:   modelID,
		CacheID:   c.instanceID.String(),
		BoneCount: asset.BoneCount(),
	})
	return asset, nil
}

// parseAsset はモデルIDの解決先から資産のルートノードを取得する。
func (c *ModelAssetCache) parseAsset(modelID string, source ModelSource) (*model.Node, error) {
	if source.ProceduralStyle != "" {
		root, err := BuildProceduralRig(source.ProceduralStyle)
		if err != nil {
			return nil, fmt.Errorf("手続きリグの生成に失敗しました: %s: %w", modelID, err)
		}
		return root, nil
	}
	if c.loader == nil {
		return nil, fmt.Errorf("資産ローダーが設定されていません: %s", modelID)
	}
	if !c.loader.CanLoad(source.Path) {
		return nil, fmt.Errorf("資産形式が未対応です: %s", source.Path)
	}
	root, err := c.loader.Load(source.Path)
	if err != nil {
		return nil, fmt.Errorf("資産の読み込みに失敗しました: %s: %w", source.Path, err)
	}
	if root == nil {
		return nil, fmt.Errorf("資産の読み込み結果が空です: %s", source.Path)
	}
	return root, nil
}

// applyMaterialBrightness はモデルIDごとの明度補正を材質へ適用する。
func (c *ModelAssetCache) applyMaterialBrightness(modelID string, root *model.Node) {
	factor, configured := c.brightnessByModelID[modelID]
	if !configured || factor <= 0 {
		return
	}
	root.Walk(func(node *model.Node) {
		material := node.Material()
		if material == nil {
			return
		}
		for i := range material.BaseColor {
			material.BaseColor[i] = mmath.Clamped(material.BaseColor[i]*factor, 0.0, 1.0)
		}
	})
}

// activateLocked は指定IDをアクティブにする。ロック保持中のみ呼ぶこと。
// アクティブIDは単一フィールドであり、各資産の可視判定はここから導出される。
func (c *ModelAssetCache) activateLocked(modelID string) {
	c.activeID = modelID
}

// Asset は読み込み済み資産を返す。未読み込みは nil を返す。
func (c *ModelAssetCache) Asset(modelID string) *model.SkeletonAsset {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, exists := c.entries[modelID]
	if !exists || entry.state != loadStateReady {
		return nil
	}
	return entry.asset
}

// ActiveModelID はアクティブなモデルIDを返す。
func (c *ModelAssetCache) ActiveModelID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// ActiveAsset はアクティブな資産を返す。未アクティブは nil を返す。
func (c *ModelAssetCache) ActiveAsset() *model.SkeletonAsset {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, exists := c.entries[c.activeID]
	if !exists || entry.state != loadStateReady {
		return nil
	}
	return entry.asset
}

// IsVisible は指定IDの資産が可視か判定する。可視な資産は常に高々1体となる。
func (c *ModelAssetCache) IsVisible(modelID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID == modelID
}

// LoadCount は指定IDの読み込み実行回数を返す。テスト計測用のフック。
func (c *ModelAssetCache) LoadCount(modelID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadCounts[modelID]
}

// Dispose はキャッシュを破棄する。以後の Load は失敗する。
func (c *ModelAssetCache) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*cacheEntry{}
	c.activeID = ""
	c.disposed = true
}

// normalizeAssetScale は資産をターゲット身長へ正規化し、接地面を原点高さへ合わせる。
func normalizeAssetScale(root *model.Node, targetHeight float64) {
	minY, maxY, found := worldHeightRange(root)
	if !found {
		return
	}
	height := maxY - minY
	if height > mmath.Epsilon {
		root.SetScale(root.Scale() * targetHeight / height)
	}

	// スケール適用後の最下端を接地面へ移動する
	minY, _, found = worldHeightRange(root)
	if !found {
		return
	}
	position := root.LocalPosition()
	root.SetLocalPosition(mmath.NewMVec3(position.X, position.Y-minY, position.Z))
}

// worldHeightRange は階層全体のワールドY範囲を返す。
func worldHeightRange(root *model.Node) (minY, maxY float64, found bool) {
	root.Walk(func(node *model.Node) {
		if node == root {
			return
		}
		world := node.WorldPosition()
		if !found {
			minY, maxY, found = world.Y, world.Y, true
			return
		}
		if world.Y < minY {
			minY = world.Y
		}
		if world.Y > maxY {
			maxY = world.Y
		}
	})
	return minY, maxY, found
}
