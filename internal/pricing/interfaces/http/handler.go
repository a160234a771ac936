package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionpricing/internal/pricing/application"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/optionpricing/pkg/logger"
)

// ToolPriceOptionBlack76 对外暴露的唯一定价操作名
const ToolPriceOptionBlack76 = "price_option_black76"

// HTTP 处理器
// 负责处理与定价相关的 HTTP 请求，所有错误一律转为结构化错误响应
type PricingHandler struct {
	svc         *application.PricingService
	serviceName string
}

// NewPricingHandler 创建 HTTP 处理器实例
func NewPricingHandler(svc *application.PricingService, serviceName string) *PricingHandler {
	return &PricingHandler{svc: svc, serviceName: serviceName}
}

// RegisterRoutes 注册路由
func (h *PricingHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.POST("/tools/"+ToolPriceOptionBlack76, h.PriceOption)
}

// ErrorResponse 结构化错误响应
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// PriceOption 定价操作：固定命名参数契约，见 application.PriceOptionCommand
func (h *PricingHandler) PriceOption(c *gin.Context) {
	var cmd application.PriceOptionCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  application.StatusError,
			Message: err.Error(),
		})
		return
	}

	dto, err := h.svc.PriceOption(c.Request.Context(), cmd)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidInput) {
			status = http.StatusBadRequest
		} else {
			logger.Error(c.Request.Context(), "unexpected pricing failure", "error", err)
		}
		c.JSON(status, ErrorResponse{
			Status:  application.StatusError,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto)
}

// Health 存活探针，独立于定价逻辑
func (h *PricingHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   h.serviceName,
		"timestamp": time.Now().Unix(),
	})
}

// Root 服务描述：服务名、模型标识与可用操作列表
func (h *PricingHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": h.serviceName,
		"model":   application.ModelName,
		"tools":   []string{ToolPriceOptionBlack76},
	})
}
