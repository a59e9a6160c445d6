// 指示: miu200521358
package rinteractor

import (
	"strings"
	"unicode"

	"github.com/miu200521358/mu_pose2rig/pkg/domain/model"
)

// boneAliasEntry はボーン名の別名1件と正準名の対応を表す。
type boneAliasEntry struct {
	Alias     string
	Canonical model.CanonicalBoneName
}

// boneAliasEntries は別名表を表す。
// 評価は定義順の先勝ちであり、具体的な別名を汎用的な別名より先に置くこと。
// 別名照合は双方向の部分文字列包含であるため、極端に短い別名は広範に一致する。
// 互換性維持のため照合仕様は変えず、3文字未満の別名を登録しない運用で回避する。
var boneAliasEntries = []boneAliasEntry{
	{Alias: "leftshoulder", Canonical: model.SHOULDER.Left()},
	{Alias: "rightshoulder", Canonical: model.SHOULDER.Right()},
	{Alias: "leftclavicle", Canonical: model.SHOULDER.Left()},
	{Alias: "rightclavicle", Canonical: model.SHOULDER.Right()},
	{Alias: "leftupperarm", Canonical: model.UPPER_ARM.Left()},
	{Alias: "rightupperarm", Canonical: model.UPPER_ARM.Right()},
	{Alias: "leftforearm", Canonical: model.FORE_ARM.Left()},
	{Alias: "rightforearm", Canonical: model.FORE_ARM.Right()},
	{Alias: "leftlowerarm", Canonical: model.FORE_ARM.Left()},
	{Alias: "rightlowerarm", Canonical: model.FORE_ARM.Right()},
	{Alias: "leftarm", Canonical: model.UPPER_ARM.Left()},
	{Alias: "rightarm", Canonical: model.UPPER_ARM.Right()},
	{Alias: "lefthand", Canonical: model.HAND.Left()},
	{Alias: "righthand", Canonical: model.HAND.Right()},
	{Alias: "leftwrist", Canonical: model.HAND.Left()},
	{Alias: "rightwrist", Canonical: model.HAND.Right()},
	{Alias: "leftupperleg", Canonical: model.UP_LEG.Left()},
	{Alias: "rightupperleg", Canonical: model.UP_LEG.Right()},
	{Alias: "leftupleg", Canonical: model.UP_LEG.Left()},
	{Alias: "rightupleg", Canonical: model.UP_LEG.Right()},
	{Alias: "leftthigh", Canonical: model.UP_LEG.Left()},
	{Alias: "rightthigh", Canonical: model.UP_LEG.Right()},
	{Alias: "leftlowerleg", Canonical: model.LEG.Left()},
	{Alias: "rightlowerleg", Canonical: model.LEG.Right()},
	{Alias: "leftleg", Canonical: model.LEG.Left()},
	{Alias: "rightleg", Canonical: model.LEG.Right()},
	{Alias: "leftfoot", Canonical: model.FOOT.Left()},
	{Alias: "rightfoot", Canonical: model.FOOT.Right()},
	{Alias: "leftankle", Canonical: model.FOOT.Left()},
	{Alias: "rightankle", Canonical: model.FOOT.Right()},
	{Alias: "upperchest", Canonical: model.CHEST},
	{Alias: "spine2", Canonical: model.SPINE2},
	{Alias: "spine1", Canonical: model.SPINE1},
	{Alias: "spine", Canonical: model.SPINE},
	{Alias: "chest", Canonical: model.CHEST},
	{Alias: "hips", Canonical: model.HIPS},
	{Alias: "pelvis", Canonical: model.HIPS},
	{Alias: "neck", Canonical: model.NECK},
	{Alias: "head", Canonical: model.HEAD},
}

// resolveCanonicalBoneName は任意のボーン名を正準名へ解決する。
// 別名表の先勝ち照合、次いで発見的な部分文字列判定の順で評価し、不一致は非致命として扱う。
func resolveCanonicalBoneName(rawName string) (model.CanonicalBoneName, bool) {
	normalized := normalizeBoneName(rawName)
	if normalized == "" {
		return "", false
	}

	// 完全一致を包含照合より優先する。"spine" が後段の "spine2" へ逆包含で
	// 吸われるのを防ぐため。
	for _, entry := range boneAliasEntries {
		if normalized == entry.Alias {
			return entry.Canonical, true
		}
	}

	for _, entry := range boneAliasEntries {
		if strings.Contains(normalized, entry.Alias) || strings.Contains(entry.Alias, normalized) {
			return entry.Canonical, true
		}
	}

	return resolveByHeuristics(normalized)
}

// normalizeBoneName はボーン名を小文字化し英数字以外を除去する。
func normalizeBoneName(rawName string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(rawName) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// resolveByHeuristics は別名表に一致しなかった名前へ発見的判定を適用する。
func resolveByHeuristics(normalized string) (model.CanonicalBoneName, bool) {
	switch {
	case strings.Contains(normalized, "hip"), strings.Contains(normalized, "pelvis"):
		return model.HIPS, true
	case strings.Contains(normalized, "spine"):
		return model.SPINE, true
	case strings.Contains(normalized, "chest"), strings.Contains(normalized, "torso"):
		return model.CHEST, true
	case strings.Contains(normalized, "neck"):
		return model.NECK, true
	case strings.Contains(normalized, "head") && !strings.Contains(normalized, "end"):
		return model.HEAD, true
	}

	side, sideOK := resolveSide(normalized)
	if !sideOK {
		return "", false
	}

	switch {
	case strings.Contains(normalized, "shoulder"), strings.Contains(normalized, "clavicle"):
		return sidedName(model.SHOULDER, side), true
	case strings.Contains(normalized, "forearm"), strings.Contains(normalized, "elbow"):
		return sidedName(model.FORE_ARM, side), true
	// fore系の名前は上腕判定から明示的に除外する
	case strings.Contains(normalized, "arm") && !strings.Contains(normalized, "fore"):
		return sidedName(model.UPPER_ARM, side), true
	case strings.Contains(normalized, "hand"), strings.Contains(normalized, "wrist"):
		return sidedName(model.HAND, side), true
	case strings.Contains(normalized, "thigh"):
		return sidedName(model.UP_LEG, side), true
	// up系の名前は下腿判定から明示的に除外する
	case (strings.Contains(normalized, "leg") || strings.Contains(normalized, "shin") ||
		strings.Contains(normalized, "knee") || strings.Contains(normalized, "calf")) &&
		!strings.Contains(normalized, "up"):
		return sidedName(model.LEG, side), true
	case strings.Contains(normalized, "foot"), strings.Contains(normalized, "ankle"):
		return sidedName(model.FOOT, side), true
	}

	return "", false
}

// boneSide は左右判定結果を表す。
type boneSide int

const (
	boneSideLeft boneSide = iota
	boneSideRight
)

// resolveSide は名前から左右を判定する。
func resolveSide(normalized string) (boneSide, bool) {
	if strings.Contains(normalized, "left") {
		return boneSideLeft, true
	}
	if strings.Contains(normalized, "right") {
		return boneSideRight, true
	}
	hasL := strings.Contains(normalized, "l")
	hasR := strings.Contains(normalized, "r")
	if hasL && !hasR {
		return boneSideLeft, true
	}
	if hasR && !hasL {
		return boneSideRight, true
	}
	return 0, false
}

// sidedName は左右付き正準名を返す。
func sidedName(base model.SidedBoneName, side boneSide) model.CanonicalBoneName {
	if side == boneSideLeft {
		return base.Left()
	}
	return base.Right()
}
