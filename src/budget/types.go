package budget

// ProcessRequest 图片压缩请求结构
type ProcessRequest struct {
	Data       string `json:"data" binding:"required"` // base64编码的图片数据
	Format     string `json:"format"`                  // 目标格式：jpeg, png, gif, webp
	ImageCount int    `json:"image_count"`             // 当前请求中的图片总数
}

// ProcessResponse 图片压缩响应结构
type ProcessResponse struct {
	Success        bool   `json:"success"`
	Data           string `json:"data,omitempty"`            // 处理后的base64数据
	OriginalWidth  int    `json:"original_width,omitempty"`  // 原始宽度
	OriginalHeight int    `json:"original_height,omitempty"` // 原始高度
	FinalWidth     int    `json:"final_width,omitempty"`     // 处理后宽度
	FinalHeight    int    `json:"final_height,omitempty"`    // 处理后高度
	Tokens         uint64 `json:"tokens,omitempty"`          // 估算的token数
	WasResized     bool   `json:"was_resized"`               // 是否进行了缩放
	Message        string `json:"message,omitempty"`         // 错误信息（失败时）
}

// EstimateRequest token估算请求结构
type EstimateRequest struct {
	Data string `json:"data" binding:"required"` // base64编码的图片数据
}

// EstimateResponse token估算响应结构
//
// 估算为尽力而为，解析失败时 Success 为 false 而不是报错
type EstimateResponse struct {
	Success bool   `json:"success"`
	Tokens  uint64 `json:"tokens,omitempty"` // 估算的token数
	Width   int    `json:"width,omitempty"`  // 原始宽度
	Height  int    `json:"height,omitempty"` // 原始高度
	Message string `json:"message,omitempty"`
}
