package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"imgtoken-server-go/src/configs"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	_ "image/gif"  // 注册GIF解码器
	_ "image/jpeg" // 注册JPEG解码器
	_ "image/png"  // 注册PNG解码器

	_ "golang.org/x/image/bmp"  // 注册BMP解码器
	_ "golang.org/x/image/webp" // 注册WEBP解码器
)

// ProcessImage 处理图片：根据配置缩放并返回处理结果
//
// base64Data 为原始 base64 编码的图片数据，format 为目标格式
// （"jpeg", "png", "gif", "webp"），imageCount 为当前请求中的图片总数，
// 用于判断是否启用多图模式。
// 每次调用相互独立，无共享状态，可安全并发调用
func ProcessImage(base64Data string, format string, config *configs.CompressionConfig, imageCount int) (*ProcessResult, error) {
	// 解码 base64
	imageBytes, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransportDecode, err)
	}

	// 先只读取图片头获取尺寸（避免不必要的全量解码）
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeaderProbe, err)
	}
	originalW, originalH := cfg.Width, cfg.Height

	// 根据图片数量选择像素限制
	maxPixels := config.ImageMaxPixelsSingle
	if imageCount >= config.ImageMultiThreshold {
		maxPixels = config.ImageMaxPixelsMulti
	}

	// 计算目标尺寸
	targetW, targetH := applyScalingRules(originalW, originalH, config.ImageMaxLongEdge, maxPixels)

	needsResize := targetW != originalW || targetH != originalH

	outputData := base64Data
	finalW, finalH := originalW, originalH

	// 仅在需要缩放时才全量解码图片
	if needsResize {
		img, _, err := image.Decode(bytes.NewReader(imageBytes))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFullDecode, err)
		}
		resized := imaging.Resize(img, targetW, targetH, imaging.Lanczos)
		// 以缩放后的实际尺寸为准
		bounds := resized.Bounds()
		finalW, finalH = bounds.Dx(), bounds.Dy()

		outputData, err = encodeImage(resized, format)
		if err != nil {
			return nil, err
		}
	}

	return &ProcessResult{
		Data:           outputData,
		OriginalWidth:  originalW,
		OriginalHeight: originalH,
		FinalWidth:     finalW,
		FinalHeight:    finalH,
		Tokens:         CalculateTokens(finalW, finalH),
		WasResized:     needsResize,
	}, nil
}

// EstimateImageTokens 从 base64 数据估算图片 token（不缩放）
//
// 仅读取图片头并按单图默认限制应用缩放规则，从不全量解码像素。
// 解析失败时 ok 为 false，调用方将结果视为尽力而为的提示
func EstimateImageTokens(base64Data string) (tokens uint64, width, height int, ok bool) {
	imageBytes, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return 0, 0, 0, false
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		return 0, 0, 0, false
	}

	scaledW, scaledH := applyScalingRules(cfg.Width, cfg.Height, DefaultMaxLongEdge, DefaultMaxPixels)
	return CalculateTokens(scaledW, scaledH), cfg.Width, cfg.Height, true
}

// encodeImage 将图片重新编码为指定格式并转为 base64
func encodeImage(img image.Image, format string) (string, error) {
	var buf bytes.Buffer
	var err error

	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		err = imaging.Encode(&buf, img, imaging.JPEG)
	case "png":
		err = imaging.Encode(&buf, img, imaging.PNG)
	case "gif":
		err = imaging.Encode(&buf, img, imaging.GIF)
	case "webp":
		err = webp.Encode(&buf, img, &webp.Options{Quality: 80})
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
