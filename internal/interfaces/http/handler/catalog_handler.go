package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	app "storefront/internal/application/catalog"
	"storefront/internal/domain/catalog"
)

type CatalogHandler struct {
	svc *app.Service
}

func NewCatalogHandler(svc *app.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type productResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       amount `json:"price"`
	Image       string `json:"image"`
}

func newProductResponse(p catalog.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       newAmount(decimal.NewFromFloat(p.Price)),
		Image:       p.Image,
	}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()
	products := h.svc.List(ctx)
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}
	resp := gin.H{"products": out}
	if at, ok := h.svc.SeededAt(ctx, app.DatasetProducts); ok {
		resp["seeded_at"] = at.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, ok := h.svc.Find(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "product not found"})
		return
	}
	c.JSON(http.StatusOK, newProductResponse(p))
}
