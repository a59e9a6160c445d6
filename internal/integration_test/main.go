// 指示: miu200521358
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_pose2rig/pkg/adapter/io_asset/jsonasset"
	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
	"github.com/miu200521358/mu_pose2rig/pkg/usecase/rinteractor"
)

const (
	batchOutputDirMode = 0o755
)

var targetCapturePaths = []string{
	"./testdata/pose_capture.jsonl",
	// "E:/MMD_E/202507_pose/capture/dance_full.jsonl",
	// "E:/MMD_E/202507_pose/capture/walk_cycle.jsonl",
	// "E:/MMD_E/202507_pose/capture/upper_body_only.jsonl",
}

// batchConfig はバッチリターゲティングの実行設定を表す。
type batchConfig struct {
	OutputRoot string
	ModelSpec  string
	DryRun     bool
	FailFast   bool
}

// retargetEntry は1キャプチャ分のリターゲティング入力情報を表す。
type retargetEntry struct {
	Index       int
	SourcePath  string
	CaptureName string
	CaseDir     string
	OutputPath  string
}

// retargetResult は1キャプチャ分のリターゲティング結果を表す。
type retargetResult struct {
	Entry         retargetEntry
	Status        string
	Duration      time.Duration
	Frames        int
	Err           error
	LoadStageInfo string
}

// loadProgressCollector は資産読み込みの進捗イベントを収集する。
type loadProgressCollector struct {
	eventCounts map[rinteractor.LoadProgressEventType]int
	boneMax     int
}

// main はポーズ検証向けのランドマーク一括リターゲティングを実行する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括リターゲティングを実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	entries := buildRetargetEntries(config.OutputRoot, targetCapturePaths)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "処理対象キャプチャがありません")
		return 2
	}

	results := executeBatchRetarget(config, entries)
	printBatchSummary(results)

	hasFailed := false
	for _, result := range results {
		if result.Status == "failed" {
			hasFailed = true
			break
		}
	}
	if hasFailed {
		return 1
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	outputRoot := flag.String("output-root", defaultOutputRoot, "結果の出力ルートディレクトリ")
	modelSpec := flag.String("model", "procedural:blocks", "モデル指定 (JSON資産パス または procedural:<style>)")
	dryRun := flag.Bool("dry-run", false, "実処理せず、入力解決と出力先計画のみ表示する")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	flag.Parse()

	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	return batchConfig{
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		ModelSpec:  strings.TrimSpace(*modelSpec),
		DryRun:     *dryRun,
		FailFast:   *failFast,
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	currentDir := filepath.Dir(currentFilePath)
	return filepath.Join(currentDir, "output"), nil
}

// buildRetargetEntries は入力パス一覧から処理対象エントリを生成する。
func buildRetargetEntries(outputRoot string, inputPaths []string) []retargetEntry {
	entries := make([]retargetEntry, 0, len(inputPaths))
	for i, rawPath := range inputPaths {
		resolvedInputPath := normalizeInputPath(rawPath)
		captureName := resolveCaptureName(rawPath)
		safeCaptureName := sanitizePathComponent(captureName)
		caseDirName := fmt.Sprintf("%03d_%s", i+1, safeCaptureName)
		caseDir := filepath.Join(outputRoot, caseDirName)
		outputPath := filepath.Join(caseDir, safeCaptureName+"_pose.jsonl")
		entries = append(entries, retargetEntry{
			Index:       i + 1,
			SourcePath:  resolvedInputPath,
			CaptureName: captureName,
			CaseDir:     caseDir,
			OutputPath:  outputPath,
		})
	}
	return entries
}

// executeBatchRetarget は全キャプチャのリターゲティング処理を順次実行する。
func executeBatchRetarget(config batchConfig, entries []retargetEntry) []retargetResult {
	results := make([]retargetResult, 0, len(entries))

	total := len(entries)
	for _, entry := range entries {
		fmt.Printf("[%d/%d] 処理開始: capture=%s\n", entry.Index, total, entry.CaptureName)
		result := retargetCaptureEntry(config, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Printf("[%d/%d] 処理成功: capture=%s frames=%d output=%s elapsed=%s\n",
				entry.Index, total, entry.CaptureName, result.Frames, entry.OutputPath,
				result.Duration.Round(time.Millisecond))
			if strings.TrimSpace(result.LoadStageInfo) != "" {
				fmt.Printf("[%d/%d] 読み込み進捗: %s\n", entry.Index, total, result.LoadStageInfo)
			}
		case "dry_run":
			fmt.Printf("[%d/%d] DRY-RUN: capture=%s input=%s output=%s\n",
				entry.Index, total, entry.CaptureName, entry.SourcePath, entry.OutputPath)
		case "skipped_missing":
			fmt.Printf("[%d/%d] 入力不足でスキップ: capture=%s input=%s reason=%v\n",
				entry.Index, total, entry.CaptureName, entry.SourcePath, result.Err)
		default:
			fmt.Printf("[%d/%d] 処理失敗: capture=%s reason=%v\n", entry.Index, total, entry.CaptureName, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// retargetCaptureEntry は1キャプチャ分のリターゲティングを実行する。
func retargetCaptureEntry(config batchConfig, entry retargetEntry) retargetResult {
	result := retargetResult{
		Entry:  entry,
		Status: "failed",
	}
	if _, err := os.Stat(entry.SourcePath); err != nil {
		result.Status = "skipped_missing"
		result.Err = err
		return result
	}
	if config.DryRun {
		result.Status = "dry_run"
		return result
	}
	if err := os.MkdirAll(entry.CaseDir, batchOutputDirMode); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}

	source, err := resolveModelSource(config.ModelSpec)
	if err != nil {
		result.Err = err
		return result
	}

	startedAt := time.Now()
	progressCollector := newLoadProgressCollector()
	cache := rinteractor.NewModelAssetCache(rinteractor.ModelAssetCacheDeps{
		AssetLoader:      jsonasset.NewJsonAssetRepository(),
		ProgressReporter: progressCollector,
		Sources:          map[string]rinteractor.ModelSource{"batch": source},
	})
	defer cache.Dispose()

	if err := cache.Load("batch"); err != nil {
		result.Err = fmt.Errorf("モデル読み込みに失敗しました: %w", err)
		return result
	}
	asset := cache.ActiveAsset()
	if asset == nil {
		result.Err = errors.New("モデルがアクティブ化されていません")
		return result
	}

	usecase := rinteractor.NewRetargetUsecase(rinteractor.RetargetUsecaseDeps{
		Cache:  cache,
		Config: rinteractor.DefaultRetargetConfig(),
	})
	state := rinteractor.NewActiveCharacterState(model.NewNode("character", model.NodeKindGroup))

	frames, err := retargetCaptureFile(usecase, state, asset, entry.SourcePath, entry.OutputPath)
	if err != nil {
		result.Err = err
		return result
	}

	result.Status = "succeeded"
	result.Duration = time.Since(startedAt)
	result.Frames = frames
	result.LoadStageInfo = progressCollector.Summary()
	return result
}

// captureFrameRecord はJSONLへ書き出す1フレーム分の結果を表す。
type captureFrameRecord struct {
	Frame int                   `json:"frame"`
	Yaw   float64               `json:"yaw"`
	Root  [3]float64            `json:"root"`
	Bones map[string][4]float64 `json:"bones,omitempty"`
}

// retargetCaptureFile はキャプチャJSONLを読み込み、フレームごとの結果をJSONLへ書き出す。
func retargetCaptureFile(
	usecase *rinteractor.RetargetUsecase,
	state *rinteractor.ActiveCharacterState,
	asset *model.SkeletonAsset,
	sourcePath string,
	outputPath string,
) (int, error) {
	in, err := os.Open(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("キャプチャファイルを開けません: %w", err)
	}
	defer in.Close()

	outFile, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("出力ファイルを作成できません: %w", err)
	}
	defer outFile.Close()
	writer := bufio.NewWriter(outFile)
	defer writer.Flush()
	encoder := json.NewEncoder(writer)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	frames := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var frame model.LandmarkFrame
		if err := json.Unmarshal([]byte(line), &frame); err != nil {
			return frames, fmt.Errorf("キャプチャ行の解析に失敗しました: line=%d: %w", frames+1, err)
		}

		usecase.Retarget(state, frame)

		record := captureFrameRecord{
			Frame: frames,
			Yaw:   state.Yaw(),
		}
		position := state.RootNode().LocalPosition()
		record.Root = [3]float64{position.X, position.Y, position.Z}
		if asset.HasSkeleton() {
			record.Bones = make(map[string][4]float64, asset.BoneCount())
			for _, name := range model.CanonicalBoneNames() {
				handle, ok := asset.Bone(name)
				if !ok {
					continue
				}
				rotation := handle.LocalRotation()
				record.Bones[name.String()] = [4]float64{rotation.Imag, rotation.Jmag, rotation.Kmag, rotation.Real}
			}
		}
		if err := encoder.Encode(record); err != nil {
			return frames, fmt.Errorf("結果の書き出しに失敗しました: line=%d: %w", frames+1, err)
		}
		frames++
	}
	if err := scanner.Err(); err != nil {
		return frames, fmt.Errorf("キャプチャファイルの読み取りに失敗しました: %w", err)
	}
	return frames, nil
}

// resolveModelSource はモデル指定を解決先へ変換する。
func resolveModelSource(modelSpec string) (rinteractor.ModelSource, error) {
	if strings.HasPrefix(modelSpec, "procedural:") {
		style := strings.TrimPrefix(modelSpec, "procedural:")
		if style == "" {
			return rinteractor.ModelSource{}, fmt.Errorf("手続きリグのスタイルを指定してください: %s", modelSpec)
		}
		return rinteractor.ModelSource{ProceduralStyle: style}, nil
	}
	if !strings.EqualFold(filepath.Ext(modelSpec), ".json") {
		return rinteractor.ModelSource{}, fmt.Errorf("モデル指定が不正です: %s", modelSpec)
	}
	return rinteractor.ModelSource{Path: normalizeInputPath(modelSpec)}, nil
}

// printBatchSummary は処理結果の集計を標準出力へ表示する。
func printBatchSummary(results []retargetResult) {
	succeeded := 0
	failed := 0
	skipped := 0
	dryRun := 0
	for _, result := range results {
		switch result.Status {
		case "succeeded":
			succeeded++
		case "dry_run":
			dryRun++
		case "skipped_missing":
			skipped++
		default:
			failed++
		}
	}
	fmt.Printf(
		"バッチ処理サマリ: total=%d succeeded=%d failed=%d skipped_missing=%d dry_run=%d\n",
		len(results),
		succeeded,
		failed,
		skipped,
		dryRun,
	)
}

// resolveCaptureName は入力パスから拡張子を除いたキャプチャ名を返す。
func resolveCaptureName(path string) string {
	base := strings.TrimSpace(filepath.Base(path))
	ext := filepath.Ext(base)
	name := strings.TrimSpace(strings.TrimSuffix(base, ext))
	if name == "" {
		return "capture"
	}
	return name
}

// normalizeInputPath は入力パスを実行環境向けに正規化する。
func normalizeInputPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(convertWindowsPathToWsl(path))
}

// convertWindowsPathToWsl は Linux 実行時に Windows パスを WSL パスへ変換する。
func convertWindowsPathToWsl(path string) string {
	trimmed := strings.TrimSpace(path)
	if runtime.GOOS != "linux" {
		return trimmed
	}
	if len(trimmed) < 2 || trimmed[1] != ':' {
		return trimmed
	}
	drive := strings.ToLower(trimmed[:1])
	rest := strings.ReplaceAll(trimmed[2:], "\\", "/")
	if rest == "" {
		return filepath.ToSlash(filepath.Join("/mnt", drive))
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return filepath.ToSlash(filepath.Join("/mnt", drive) + rest)
}

// sanitizePathComponent は出力ディレクトリ/ファイル名に使えない文字を置換する。
func sanitizePathComponent(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "capture"
	}
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			if r < 0x20 {
				return '_'
			}
			return r
		}
	}, trimmed)
	replaced = strings.Trim(replaced, " .")
	if replaced == "" {
		return "capture"
	}
	return replaced
}

// newLoadProgressCollector は読み込み進捗収集器を生成する。
func newLoadProgressCollector() *loadProgressCollector {
	return &loadProgressCollector{
		eventCounts: map[rinteractor.LoadProgressEventType]int{},
	}
}

// ReportLoadProgress は資産読み込みの進捗イベントを収集する。
func (collector *loadProgressCollector) ReportLoadProgress(event rinteractor.LoadProgressEvent) {
	if collector == nil {
		return
	}
	if collector.eventCounts == nil {
		collector.eventCounts = map[rinteractor.LoadProgressEventType]int{}
	}
	collector.eventCounts[event.Type]++
	if event.BoneCount > collector.boneMax {
		collector.boneMax = event.BoneCount
	}
}

// Summary は収集した読み込み進捗の要約文字列を返す。
func (collector *loadProgressCollector) Summary() string {
	if collector == nil || len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for stageType := range collector.eventCounts {
		types = append(types, string(stageType))
	}
	sort.Strings(types)
	return fmt.Sprintf(
		"events=%d boneMax=%d stages=%s",
		len(collector.eventCounts),
		collector.boneMax,
		strings.Join(types, ","),
	)
}
