package image

import "math"

// 单图模式下的默认缩放限制（Anthropic 官方建议值）
const (
	DefaultMaxLongEdge = 1568
	DefaultMaxPixels   = 1_150_000
)

// applyScalingRules 应用缩放规则，计算目标尺寸
//
// 规则按顺序叠加，规则2作用于规则1的输出：
// 1. 长边超过 maxLongEdge 时，等比缩放
// 2. 总像素超过 maxPixels 时，等比缩放
// 最后向下取整，且每边不小于1像素
func applyScalingRules(width, height, maxLongEdge, maxPixels int) (int, int) {
	w := float64(width)
	h := float64(height)

	// 规则1: 长边限制
	longEdge := math.Max(w, h)
	if longEdge > float64(maxLongEdge) {
		scale := float64(maxLongEdge) / longEdge
		w *= scale
		h *= scale
	}

	// 规则2: 总像素限制（使用规则1缩放后的值）
	pixels := w * h
	if pixels > float64(maxPixels) {
		scale := math.Sqrt(float64(maxPixels) / pixels)
		w *= scale
		h *= scale
	}

	return int(math.Max(math.Floor(w), 1)), int(math.Max(math.Floor(h), 1))
}

// CalculateTokens 根据最终像素尺寸计算 token 数
//
// 公式（Anthropic 官方）: tokens = (width × height) / 750，四舍五入
func CalculateTokens(width, height int) uint64 {
	return (uint64(width)*uint64(height) + 375) / 750
}
