package templateconfig

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/templates"
)

type configSource interface {
	GetTemplateConfig(ctx context.Context, shop string) (*ShopTemplateConfig, error)
}

// Handler exposes the available templates and the config a shop renders with
type Handler struct {
	configs configSource
}

func NewHandler(configs configSource) *Handler {
	return &Handler{configs: configs}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/templates", h.ListTemplates)
	r.GET("/shops/:shop/template-config", h.GetShopConfig)
}

func (h *Handler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"templates": templates.Names(),
		"default":   templates.DefaultName,
	})
}

// GetShopConfig returns the config as handed to the renderer, so shops
// without a stored config report source "environment"
func (h *Handler) GetShopConfig(c *gin.Context) {
	raw, err := h.configs.GetTemplateConfig(c.Request.Context(), c.Param("shop"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, FormatForPDF(raw))
}
