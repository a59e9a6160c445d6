// 指示: miu200521358
package model

// CanonicalBoneName は正準ボーン名を表す。
// 解決対象となる正準名はここで列挙する21種のみであり、実行時に増えることはない。
type CanonicalBoneName string

const (
	// HIPS は腰ボーンを表す。
	HIPS CanonicalBoneName = "hips"
	// SPINE は背骨ボーンを表す。
	SPINE CanonicalBoneName = "spine"
	// SPINE1 は背骨第2ボーンを表す。
	SPINE1 CanonicalBoneName = "spine1"
	// SPINE2 は背骨第3ボーンを表す。
	SPINE2 CanonicalBoneName = "spine2"
	// CHEST は胸ボーンを表す。
	CHEST CanonicalBoneName = "chest"
	// NECK は首ボーンを表す。
	NECK CanonicalBoneName = "neck"
	// HEAD は頭ボーンを表す。
	HEAD CanonicalBoneName = "head"
)

// SidedBoneName は左右対のある正準ボーン名の基底を表す。
type SidedBoneName string

const (
	// SHOULDER は肩ボーン基底を表す。
	SHOULDER SidedBoneName = "Shoulder"
	// UPPER_ARM は上腕ボーン基底を表す。
	UPPER_ARM SidedBoneName = "UpperArm"
	// FORE_ARM は前腕ボーン基底を表す。
	FORE_ARM SidedBoneName = "ForeArm"
	// HAND は手ボーン基底を表す。
	HAND SidedBoneName = "Hand"
	// UP_LEG は太ももボーン基底を表す。
	UP_LEG SidedBoneName = "UpLeg"
	// LEG はすねボーン基底を表す。
	LEG SidedBoneName = "Leg"
	// FOOT は足ボーン基底を表す。
	FOOT SidedBoneName = "Foot"
)

// Left は左側の正準ボーン名を返す。
func (s SidedBoneName) Left() CanonicalBoneName {
	return CanonicalBoneName("left" + string(s))
}

// Right は右側の正準ボーン名を返す。
func (s SidedBoneName) Right() CanonicalBoneName {
	return CanonicalBoneName("right" + string(s))
}

// String は正準ボーン名の文字列表現を返す。
func (n CanonicalBoneName) String() string {
	return string(n)
}

// CanonicalBoneNames は正準ボーン名の全21種を定義順で返す。
func CanonicalBoneNames() []CanonicalBoneName {
	return []CanonicalBoneName{
		HIPS, SPINE, SPINE1, SPINE2, CHEST, NECK, HEAD,
		SHOULDER.Left(), UPPER_ARM.Left(), FORE_ARM.Left(), HAND.Left(),
		SHOULDER.Right(), UPPER_ARM.Right(), FORE_ARM.Right(), HAND.Right(),
		UP_LEG.Left(), LEG.Left(), FOOT.Left(),
		UP_LEG.Right(), LEG.Right(), FOOT.Right(),
	}
}
