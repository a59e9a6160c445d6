// 指示: miu200521358
package rinteractor

// LoadProgressEventType は資産読み込みの進捗イベント種別を表す。
type LoadProgressEventType string

const (
	// LoadProgressEventTypeLoadStarted は読み込み開始イベントを表す。
	LoadProgressEventTypeLoadStarted LoadProgressEventType = "load_started"
	// LoadProgressEventTypeAssetParsed は資産解析完了イベントを表す。
	LoadProgressEventTypeAssetParsed LoadProgressEventType = "asset_parsed"
	// LoadProgressEventTypeScaleNormalized はスケール正規化完了イベントを表す。
	LoadProgressEventTypeScaleNormalized LoadProgressEventType = "scale_normalized"
	// LoadProgressEventTypeSkeletonMapped はスケルトンマッピング完了イベントを表す。
	LoadProgressEventTypeSkeletonMapped LoadProgressEventType = "skeleton_mapped"
	// LoadProgressEventTypeActivated は資産アクティブ化イベントを表す。
	LoadProgressEventTypeActivated LoadProgressEventType = "activated"
	// LoadProgressEventTypeLoadFailed は読み込み失敗イベントを表す。
	LoadProgressEventTypeLoadFailed LoadProgressEventType = "load_failed"
	// LoadProgressEventTypeUnknownModelID は未登録モデルID診断イベントを表す。
	LoadProgressEventTypeUnknownModelID LoadProgressEventType = "unknown_model_id"
)

// LoadProgressEvent は資産読み込みの進捗イベントを表す。
type LoadProgressEvent struct {
	Type      LoadProgressEventType
	ModelID   string
	CacheID   string
	BoneCount int
	Message   string
}

// ILoadProgressReporter は資産読み込みの進捗通知契約を表す。
type ILoadProgressReporter interface {
	// ReportLoadProgress は読み込み進捗を通知する。
	ReportLoadProgress(event LoadProgressEvent)
}

// reportLoadProgress は読み込み進捗を通知する。
func reportLoadProgress(reporter ILoadProgressReporter, event LoadProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportLoadProgress(event)
}
