package budget

import (
	"context"

	"github.com/gin-gonic/gin"
)

// BudgetService 定义图片token预算服务接口
type BudgetService interface {
	// 将服务的路由注册到 engine 与 apiGroup
	Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error
}
