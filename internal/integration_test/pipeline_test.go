// 指示: miu200521358
package main

import (
	"bufio"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/miu200521358/mu_pose2rig/pkg/adapter/io_asset/jsonasset"
	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
	"github.com/miu200521358/mu_pose2rig/pkg/usecase/rinteractor"
)

const mixamoAssetJSON = `{
  "name": "hero",
  "root": {
    "name": "Armature",
    "kind": "group",
    "children": [
      {"name": "mixamorig:Hips", "kind": "bone", "position": [0, 0.9, 0], "children": [
        {"name": "mixamorig:Spine", "kind": "bone", "position": [0, 0.15, 0], "children": [
          {"name": "mixamorig:Neck", "kind": "bone", "position": [0, 0.4, 0], "children": [
            {"name": "mixamorig:Head", "kind": "bone", "position": [0, 0.1, 0]}
          ]},
          {"name": "mixamorig:LeftArm", "kind": "bone", "position": [0.18, 0.35, 0], "children": [
            {"name": "mixamorig:LeftForeArm", "kind": "bone", "position": [0.25, 0, 0], "children": [
              {"name": "mixamorig:LeftHand", "kind": "bone", "position": [0.25, 0, 0]}
            ]}
          ]},
          {"name": "mixamorig:RightArm", "kind": "bone", "position": [-0.18, 0.35, 0], "children": [
            {"name": "mixamorig:RightForeArm", "kind": "bone", "position": [-0.25, 0, 0], "children": [
              {"name": "mixamorig:RightHand", "kind": "bone", "position": [-0.25, 0, 0]}
            ]}
          ]}
        ]},
        {"name": "mixamorig:LeftUpLeg", "kind": "bone", "position": [0.09, -0.05, 0], "children": [
          {"name": "mixamorig:LeftLeg", "kind": "bone", "position": [0, -0.4, 0], "children": [
            {"name": "mixamorig:LeftFoot", "kind": "bone", "position": [0, -0.4, 0]}
          ]}
        ]},
        {"name": "mixamorig:RightUpLeg", "kind": "bone", "position": [-0.09, -0.05, 0], "children": [
          {"name": "mixamorig:RightLeg", "kind": "bone", "position": [0, -0.4, 0], "children": [
            {"name": "mixamorig:RightFoot", "kind": "bone", "position": [0, -0.4, 0]}
          ]}
        ]}
      ]}
    ]
  }
}`

// writeMixamoAsset はmixamo風スケルトンのJSON資産を保存する。
func writeMixamoAsset(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "hero.json")
	if err := os.WriteFile(path, []byte(mixamoAssetJSON), 0o644); err != nil {
		t.Fatalf("write asset failed: %v", err)
	}
	return path
}

// writeBentArmCapture は左肘を真下へ曲げたキャプチャJSONLを保存する。
func writeBentArmCapture(t *testing.T, dir string, frames int) string {
	t.Helper()
	buf := make([]byte, 0, 1024)
	for i := 0; i < frames; i++ {
		frame := make(model.LandmarkFrame, model.LandmarkCount)
		frame[model.LandmarkNose] = &model.Landmark{X: 0.5, Y: 0.15, Visibility: 1}
		frame[model.LandmarkLeftShoulder] = &model.Landmark{X: 0.4, Y: 0.35, Visibility: 1}
		frame[model.LandmarkRightShoulder] = &model.Landmark{X: 0.6, Y: 0.35, Visibility: 1}
		// 左肘は肩の真下。上腕レスト方向 +X から -Y への回転を要求する。
		frame[model.LandmarkLeftElbow] = &model.Landmark{X: 0.4, Y: 0.5, Visibility: 1}
		frame[model.LandmarkRightElbow] = &model.Landmark{X: 0.75, Y: 0.35, Visibility: 1}
		frame[model.LandmarkLeftWrist] = &model.Landmark{X: 0.4, Y: 0.65, Visibility: 1}
		frame[model.LandmarkRightWrist] = &model.Landmark{X: 0.9, Y: 0.35, Visibility: 1}
		frame[model.LandmarkLeftHip] = &model.Landmark{X: 0.45, Y: 0.6, Visibility: 1}
		frame[model.LandmarkRightHip] = &model.Landmark{X: 0.55, Y: 0.6, Visibility: 1}
		line, err := json.Marshal(frame)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	path := filepath.Join(dir, "capture.jsonl")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write capture failed: %v", err)
	}
	return path
}

func TestBatchRetargetMixamoAssetEndToEnd(t *testing.T) {
	tempDir := t.TempDir()
	assetPath := writeMixamoAsset(t, tempDir)
	capturePath := writeBentArmCapture(t, tempDir, 2)
	outputRoot := filepath.Join(tempDir, "output")

	config := batchConfig{OutputRoot: outputRoot, ModelSpec: assetPath}
	entries := buildRetargetEntries(outputRoot, []string{capturePath})
	results := executeBatchRetarget(config, entries)

	if len(results) != 1 {
		t.Fatalf("unexpected result count: got=%d", len(results))
	}
	if results[0].Status != "succeeded" {
		t.Fatalf("unexpected status: got=%s err=%v", results[0].Status, results[0].Err)
	}
	if results[0].Frames != 2 {
		t.Fatalf("unexpected frame count: got=%d", results[0].Frames)
	}

	file, err := os.Open(results[0].Entry.OutputPath)
	if err != nil {
		t.Fatalf("output not found: %v", err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		t.Fatalf("expected at least one result line")
	}
	record := captureFrameRecord{}
	if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
		t.Fatalf("record parse failed: %v", err)
	}

	// "mixamorig:LeftArm" は leftUpperArm として解決され、肩→肘の真下方向から
	// Z軸まわりの -90度 回転が導かれる
	rotation, ok := record.Bones[model.UPPER_ARM.Left().String()]
	if !ok {
		t.Fatalf("expected leftUpperArm in result: got=%v", record.Bones)
	}
	halfSqrt2 := math.Sqrt(2) / 2
	if math.Abs(rotation[2]+halfSqrt2) > 1e-3 || math.Abs(rotation[3]-halfSqrt2) > 1e-3 {
		t.Fatalf("unexpected leftUpperArm rotation: got=%v", rotation)
	}
	if math.Abs(rotation[0]) > 1e-6 || math.Abs(rotation[1]) > 1e-6 {
		t.Fatalf("expected rotation axis perpendicular to the bend plane: got=%v", rotation)
	}

	if record.Root[1] <= 0 {
		t.Fatalf("expected elevated body center: got=%v", record.Root)
	}
}

func TestBatchRetargetDryRunPlansWithoutOutput(t *testing.T) {
	tempDir := t.TempDir()
	capturePath := writeBentArmCapture(t, tempDir, 1)
	outputRoot := filepath.Join(tempDir, "output")

	config := batchConfig{OutputRoot: outputRoot, ModelSpec: "procedural:blocks", DryRun: true}
	entries := buildRetargetEntries(outputRoot, []string{capturePath})
	results := executeBatchRetarget(config, entries)

	if results[0].Status != "dry_run" {
		t.Fatalf("unexpected status: got=%s", results[0].Status)
	}
	if _, err := os.Stat(results[0].Entry.OutputPath); !os.IsNotExist(err) {
		t.Fatalf("expected no output in dry-run: err=%v", err)
	}
}

func TestBatchRetargetSkipsMissingCapture(t *testing.T) {
	tempDir := t.TempDir()
	outputRoot := filepath.Join(tempDir, "output")

	config := batchConfig{OutputRoot: outputRoot, ModelSpec: "procedural:blocks"}
	entries := buildRetargetEntries(outputRoot, []string{filepath.Join(tempDir, "missing.jsonl")})
	results := executeBatchRetarget(config, entries)

	if results[0].Status != "skipped_missing" {
		t.Fatalf("unexpected status: got=%s", results[0].Status)
	}
}

func TestJsonAssetSequentialLoadUsesCache(t *testing.T) {
	tempDir := t.TempDir()
	assetPath := writeMixamoAsset(t, tempDir)

	cache := rinteractor.NewModelAssetCache(rinteractor.ModelAssetCacheDeps{
		AssetLoader: jsonasset.NewJsonAssetRepository(),
		Sources:     map[string]rinteractor.ModelSource{"hero": {Path: assetPath}},
	})
	defer cache.Dispose()

	if err := cache.Load("hero"); err != nil {
		t.Fatalf("unexpected first load error: %v", err)
	}
	if err := cache.Load("hero"); err != nil {
		t.Fatalf("unexpected second load error: %v", err)
	}
	if got := cache.LoadCount("hero"); got != 1 {
		t.Fatalf("expected cached asset to be reused: got=%d", got)
	}
	if cache.ActiveAsset() == nil || !cache.ActiveAsset().HasSkeleton() {
		t.Fatalf("expected mapped skeleton asset")
	}
}

func TestBuildRetargetEntriesSanitizesNames(t *testing.T) {
	entries := buildRetargetEntries("/tmp/out", []string{"captures/walk:cycle?.jsonl"})
	if len(entries) != 1 {
		t.Fatalf("unexpected entry count: got=%d", len(entries))
	}
	if entries[0].CaseDir != filepath.Join("/tmp/out", "001_walk_cycle_") {
		t.Fatalf("unexpected case dir: got=%s", entries[0].CaseDir)
	}
}
