// 指示: miu200521358
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_pose2rig/pkg/adapter/io_asset/jsonasset"
	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
	"github.com/miu200521358/mu_pose2rig/pkg/usecase/rinteractor"
)

// proceduralModelPrefix は手続きリグ指定の接頭辞を表す。
const proceduralModelPrefix = "procedural:"

// options はCLI引数を保持する。
type options struct {
	modelSpec     string
	modelID       string
	landmarksPath string
	outputPath    string
	targetHeight  float64
	smoothing     float64
	amplification float64
}

// frameResult は1フレーム分のリターゲティング結果を表す。
type frameResult struct {
	Frame int                   `json:"frame"`
	Root  rootResult            `json:"root"`
	Bones map[string][4]float64 `json:"bones,omitempty"`
}

// rootResult は全身の位置とヨーを表す。
type rootResult struct {
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
}

// main はランドマーク列からボーン回転列への変換を実行する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		return err
	}
	source, err := resolveModelSource(opts.modelSpec)
	if err != nil {
		return err
	}

	cache := rinteractor.NewModelAssetCache(rinteractor.ModelAssetCacheDeps{
		AssetLoader:      jsonasset.NewJsonAssetRepository(),
		ProgressReporter: &consoleProgressReporter{out: out},
		Sources:          map[string]rinteractor.ModelSource{opts.modelID: source},
		TargetHeight:     opts.targetHeight,
	})
	defer cache.Dispose()

	fmt.Fprintf(out, "[mu_pose2rig] モデル読み込み開始: %s\n", opts.modelSpec)
	if err := cache.Load(opts.modelID); err != nil {
		return fmt.Errorf("モデル読み込みに失敗しました: %w", err)
	}
	asset := cache.ActiveAsset()
	if asset == nil {
		return fmt.Errorf("モデルがアクティブ化されていません: %s", opts.modelID)
	}

	config := rinteractor.DefaultRetargetConfig()
	if opts.smoothing > 0 {
		config.SmoothingFactor = opts.smoothing
	}
	if opts.amplification > 0 {
		config.HorizontalAmplification = opts.amplification
	}
	usecase := rinteractor.NewRetargetUsecase(rinteractor.RetargetUsecaseDeps{
		Cache:  cache,
		Config: config,
	})
	state := rinteractor.NewActiveCharacterState(model.NewNode("character", model.NodeKindGroup))

	outputPath, err := resolveOutputPath(opts.landmarksPath, opts.outputPath)
	if err != nil {
		return err
	}
	if err := ensureOutputDir(outputPath); err != nil {
		return err
	}

	frames, err := retargetLandmarkStream(usecase, state, asset, opts.landmarksPath, outputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "[mu_pose2rig] 変換完了: frames=%d out=%s\n", frames, outputPath)
	return nil
}

// retargetLandmarkStream はJSONLのランドマーク列を順に処理し、結果をJSONLで書き出す。
func retargetLandmarkStream(
	usecase *rinteractor.RetargetUsecase,
	state *rinteractor.ActiveCharacterState,
	asset *model.SkeletonAsset,
	landmarksPath string,
	outputPath string,
) (int, error) {
	in, err := os.Open(landmarksPath)
	if err != nil {
		return 0, fmt.Errorf("ランドマークファイルを開けません: %s: %w", landmarksPath, err)
	}
	defer in.Close()

	outFile, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("出力ファイルを作成できません: %s: %w", outputPath, err)
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
			return frames, fmt.Errorf("ランドマーク行の解析に失敗しました: line=%d: %w", frames+1, err)
		}

		usecase.Retarget(state, frame)
		if err := encoder.Encode(captureFrameResult(frames, state, asset)); err != nil {
			return frames, fmt.Errorf("結果の書き出しに失敗しました: line=%d: %w", frames+1, err)
		}
		frames++
	}
	if err := scanner.Err(); err != nil {
		return frames, fmt.Errorf("ランドマークファイルの読み取りに失敗しました: %w", err)
	}
	return frames, nil
}

// captureFrameResult は現在のキャラクタ状態から1フレーム分の結果を写し取る。
func captureFrameResult(frame int, state *rinteractor.ActiveCharacterState, asset *model.SkeletonAsset) frameResult {
	position := state.RootNode().LocalPosition()
	result := frameResult{
		Frame: frame,
		Root: rootResult{
			Position: [3]float64{position.X, position.Y, position.Z},
			Yaw:      state.Yaw(),
		},
	}
	if !asset.HasSkeleton() {
		return result
	}

	result.Bones = make(map[string][4]float64, asset.BoneCount())
	for _, name := range model.CanonicalBoneNames() {
		handle, ok := asset.Bone(name)
		if !ok {
			continue
		}
		rotation := handle.LocalRotation()
		result.Bones[name.String()] = [4]float64{rotation.Imag, rotation.Jmag, rotation.Kmag, rotation.Real}
	}
	return result
}

// parseOptions はCLI引数を解析する。
func parseOptions(args []string, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet("mu_pose2rig", flag.ContinueOnError)
	fs.SetOutput(errOut)

	modelSpec := fs.String("model", "", "モデル指定 (JSON資産パス または procedural:<style>)")
	modelID := fs.String("id", "model", "モデルID")
	landmarks := fs.String("landmarks", "", "入力ランドマークJSONLパス")
	out := fs.String("out", "", "出力JSONLパス")
	height := fs.Float64("height", 0, "正規化後のターゲット身長")
	smoothing := fs.Float64("smoothing", 0, "平滑化係数 (0より大きく1以下)")
	amplification := fs.Float64("amp", 0, "水平移動の増幅率 (1以上)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *modelSpec == "" && fs.NArg() > 0 {
		*modelSpec = fs.Arg(0)
	}
	if *landmarks == "" && fs.NArg() > 1 {
		*landmarks = fs.Arg(1)
	}
	if *modelSpec == "" {
		return options{}, fmt.Errorf("モデルを指定してください (-model)")
	}
	if *landmarks == "" {
		return options{}, fmt.Errorf("入力ランドマークJSONLを指定してください (-landmarks)")
	}
	if *smoothing < 0 || *smoothing > 1 {
		return options{}, fmt.Errorf("平滑化係数は0より大きく1以下で指定してください: %f", *smoothing)
	}
	if *modelID == "" {
		return options{}, fmt.Errorf("モデルIDを指定してください (-id)")
	}

	return options{
		modelSpec:     *modelSpec,
		modelID:       *modelID,
		landmarksPath: *landmarks,
		outputPath:    *out,
		targetHeight:  *height,
		smoothing:     *smoothing,
		amplification: *amplification,
	}, nil
}

// resolveModelSource はモデル指定を解決先へ変換する。
func resolveModelSource(modelSpec string) (rinteractor.ModelSource, error) {
	if strings.HasPrefix(modelSpec, proceduralModelPrefix) {
		style := strings.TrimPrefix(modelSpec, proceduralModelPrefix)
		if style == "" {
			return rinteractor.ModelSource{}, fmt.Errorf("手続きリグのスタイルを指定してください: %s", modelSpec)
		}
		return rinteractor.ModelSource{ProceduralStyle: style}, nil
	}
	if !strings.EqualFold(filepath.Ext(modelSpec), ".json") {
		return rinteractor.ModelSource{}, fmt.Errorf("モデル指定が不正です (JSON資産パス または procedural:<style>): %s", modelSpec)
	}
	return rinteractor.ModelSource{Path: modelSpec}, nil
}

// resolveOutputPath は出力JSONLパスを解決する。
func resolveOutputPath(landmarksPath string, outputPath string) (string, error) {
	if strings.TrimSpace(outputPath) == "" {
		dir := filepath.Dir(landmarksPath)
		base := strings.TrimSuffix(filepath.Base(landmarksPath), filepath.Ext(landmarksPath))
		return filepath.Join(dir, base+"_pose.jsonl"), nil
	}
	return outputPath, nil
}

// ensureOutputDir は出力先ディレクトリを作成する。
func ensureOutputDir(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("出力先ディレクトリの作成に失敗しました: %w", err)
	}
	return nil
}

// consoleProgressReporter は読み込み進捗を標準出力へ流すレポーターを表す。
type consoleProgressReporter struct {
	out io.Writer
}

// ReportLoadProgress は読み込み進捗を通知する。
func (r *consoleProgressReporter) ReportLoadProgress(event rinteractor.LoadProgressEvent) {
	if event.Message != "" {
		fmt.Fprintf(r.out, "[mu_pose2rig] 読み込み進捗: type=%s model=%s message=%s\n",
			event.Type, event.ModelID, event.Message)
		return
	}
	fmt.Fprintf(r.out, "[mu_pose2rig] 読み込み進捗: type=%s model=%s bones=%d\n",
		event.Type, event.ModelID, event.BoneCount)
}
