package image

import "errors"

// ProcessResult 图片处理结果
type ProcessResult struct {
	Data           string `json:"data"`            // 处理后的 base64 数据
	OriginalWidth  int    `json:"original_width"`  // 原始宽度
	OriginalHeight int    `json:"original_height"` // 原始高度
	FinalWidth     int    `json:"final_width"`     // 处理后宽度
	FinalHeight    int    `json:"final_height"`    // 处理后高度
	Tokens         uint64 `json:"tokens"`          // 估算的 token 数
	WasResized     bool   `json:"was_resized"`     // 是否进行了缩放
}

// 处理失败的错误分类，调用方可通过 errors.Is 判断具体阶段
var (
	ErrTransportDecode   = errors.New("base64解码失败")
	ErrHeaderProbe       = errors.New("读取图片尺寸失败")
	ErrUnsupportedFormat = errors.New("不支持的图片格式")
	ErrFullDecode        = errors.New("图片加载失败")
	ErrEncode            = errors.New("图片编码失败")
)
