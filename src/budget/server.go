package budget

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"imgtoken-server-go/src/configs"
	"imgtoken-server-go/src/core/auth"
	"imgtoken-server-go/src/core/image"
	"imgtoken-server-go/src/core/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// 最大请求体大小为10MB（base64数据约对应7.5MB原始图片）
	MAX_BODY_SIZE = 10 * 1024 * 1024
)

// DefaultBudgetService 图片token预算HTTP服务
type DefaultBudgetService struct {
	logger    *utils.Logger
	config    *configs.Config
	authToken *auth.AuthToken // 认证工具
}

// NewDefaultBudgetService 构造函数
func NewDefaultBudgetService(config *configs.Config, logger *utils.Logger) (*DefaultBudgetService, error) {
	service := &DefaultBudgetService{
		logger: logger,
		config: config,
	}

	if config.Server.Auth.Enabled {
		if config.Server.Auth.Secret == "" {
			return nil, fmt.Errorf("启用认证时必须配置密钥")
		}
		service.authToken = auth.NewAuthToken(config.Server.Auth.Secret)
	}

	return service, nil
}

// Start 实现 BudgetService 接口，注册所有预算相关路由
func (s *DefaultBudgetService) Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error {
	apiGroup.GET("/image", s.handleGet)
	apiGroup.POST("/image/process", s.handleProcess)
	apiGroup.POST("/image/estimate", s.handleEstimate)
	apiGroup.OPTIONS("/image/process", s.handleOptions)
	apiGroup.OPTIONS("/image/estimate", s.handleOptions)

	s.logger.Info("图片预算HTTP服务路由注册完成")
	return nil
}

// handleOptions 处理OPTIONS请求（CORS）
func (s *DefaultBudgetService) handleOptions(c *gin.Context) {
	s.addCORSHeaders(c)
	c.Status(http.StatusOK)
}

// handleGet 处理GET请求（状态检查）
func (s *DefaultBudgetService) handleGet(c *gin.Context) {
	s.addCORSHeaders(c)
	cc := s.config.Compression
	message := fmt.Sprintf("图片预算接口运行正常，长边限制 %d，单图像素限制 %d，多图像素限制 %d（阈值 %d）",
		cc.ImageMaxLongEdge, cc.ImageMaxPixelsSingle, cc.ImageMaxPixelsMulti, cc.ImageMultiThreshold)
	c.String(http.StatusOK, message)
}

// handleProcess 处理图片压缩请求
func (s *DefaultBudgetService) handleProcess(c *gin.Context) {
	s.addCORSHeaders(c)

	if !s.verifyAuth(c) {
		return
	}

	requestID := uuid.New().String()

	// 限制请求体大小，避免超大输入耗尽资源
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MAX_BODY_SIZE)

	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Sprintf("请求解析失败: %v", err))
		return
	}
	if req.Format == "" {
		req.Format = "jpeg"
	}
	if req.ImageCount < 1 {
		req.ImageCount = 1
	}

	s.logger.Debug("收到图片压缩请求 %v", map[string]interface{}{
		"request_id":  requestID,
		"format":      req.Format,
		"image_count": req.ImageCount,
		"data_length": len(req.Data),
	})

	result, err := image.ProcessImage(req.Data, req.Format, &s.config.Compression, req.ImageCount)
	if err != nil {
		s.respondError(c, processErrorStatus(err), err.Error())
		s.logger.Warn("图片压缩失败", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return
	}

	s.logger.Info(fmt.Sprintf("图片压缩完成: %dx%d -> %dx%d, tokens=%d, resized=%t",
		result.OriginalWidth, result.OriginalHeight,
		result.FinalWidth, result.FinalHeight, result.Tokens, result.WasResized))

	c.JSON(http.StatusOK, ProcessResponse{
		Success:        true,
		Data:           result.Data,
		OriginalWidth:  result.OriginalWidth,
		OriginalHeight: result.OriginalHeight,
		FinalWidth:     result.FinalWidth,
		FinalHeight:    result.FinalHeight,
		Tokens:         result.Tokens,
		WasResized:     result.WasResized,
	})
}

// handleEstimate 处理token估算请求（不缩放，不解码像素）
func (s *DefaultBudgetService) handleEstimate(c *gin.Context) {
	s.addCORSHeaders(c)

	if !s.verifyAuth(c) {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MAX_BODY_SIZE)

	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Sprintf("请求解析失败: %v", err))
		return
	}

	tokens, width, height, ok := image.EstimateImageTokens(req.Data)
	if !ok {
		// 估算失败不算错误，返回success=false供调用方降级处理
		c.JSON(http.StatusOK, EstimateResponse{
			Success: false,
			Message: "无法解析图片数据",
		})
		return
	}

	c.JSON(http.StatusOK, EstimateResponse{
		Success: true,
		Tokens:  tokens,
		Width:   width,
		Height:  height,
	})
}

// verifyAuth 验证认证token，失败时直接写入响应并返回false
func (s *DefaultBudgetService) verifyAuth(c *gin.Context) bool {
	if s.authToken == nil {
		return true
	}

	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		s.respondError(c, http.StatusUnauthorized, "无效的认证token或token已过期")
		return false
	}

	token := authHeader[7:] // 移除"Bearer "前缀

	isValid, clientID, err := s.authToken.VerifyToken(token)
	if err != nil || !isValid {
		s.logger.Warn(fmt.Sprintf("认证token验证失败: %v", err))
		s.respondError(c, http.StatusUnauthorized, "无效的认证token或token已过期")
		return false
	}

	s.logger.Debug(fmt.Sprintf("认证通过: %s", clientID))
	return true
}

// processErrorStatus 将处理错误映射为HTTP状态码
func processErrorStatus(err error) int {
	switch {
	case errors.Is(err, image.ErrTransportDecode):
		return http.StatusBadRequest
	case errors.Is(err, image.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, image.ErrHeaderProbe),
		errors.Is(err, image.ErrFullDecode),
		errors.Is(err, image.ErrEncode):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError 返回错误响应
func (s *DefaultBudgetService) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ProcessResponse{
		Success: false,
		Message: message,
	})
}

// addCORSHeaders 添加CORS响应头
func (s *DefaultBudgetService) addCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Client-Id")
}
