package router

import (
	"github.com/gin-gonic/gin"

	"storefront/internal/interfaces/http/handler"
)

type Handlers struct {
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Report   *handler.ReportHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	api := r.Group("/api")
	{
		api.GET("/products", h.Catalog.ListProducts)
		api.GET("/products/:id", h.Catalog.GetProduct)

		api.GET("/cart", h.Cart.GetCart)
		api.GET("/cart/ws", h.Cart.Stream)
		api.POST("/cart/items", h.Cart.AddItem)
		api.PUT("/cart/items/:id", h.Cart.SetQuantity)
		api.DELETE("/cart/items/:id", h.Cart.RemoveItem)
		api.DELETE("/cart", h.Cart.Clear)

		api.GET("/checkout", h.Checkout.Get)
		api.POST("/checkout/begin", h.Checkout.Begin)
		api.PUT("/checkout/form", h.Checkout.UpdateForm)
		api.POST("/checkout/submit", h.Checkout.Submit)
		api.POST("/checkout/ack", h.Checkout.Acknowledge)
	}

	admin := api.Group("/admin/reports")
	{
		admin.GET("/summary", h.Report.Summary)
		admin.GET("/orders", h.Report.Orders)
		admin.GET("/contacts", h.Report.Contacts)
		admin.GET("/export/:kind", h.Report.Export)
	}
}
