package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	cartapp "storefront/internal/application/cart"
	catalogapp "storefront/internal/application/catalog"
	"storefront/internal/domain/cart"
	"storefront/internal/domain/pricing"
	"storefront/pkg/logger"
)

const wsWriteTimeout = 5 * time.Second

type CartHandler struct {
	store    *cartapp.Store
	catalog  *catalogapp.Service
	log      logger.Logger
	upgrader websocket.Upgrader
}

func NewCartHandler(store *cartapp.Store, catalog *catalogapp.Service, log logger.Logger) *CartHandler {
	return &CartHandler{
		store:   store,
		catalog: catalog,
		log:     log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Quantity stays raw so that "2", 2.7 and "abc" all normalize.
type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  any    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity any `json:"quantity"`
}

func (h *CartHandler) view(c *gin.Context, entries []cart.Entry) cartResponse {
	return newCartResponse(pricing.Resolve(entries, h.catalog.List(c.Request.Context())), entries)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.view(c, h.store.Read(c.Request.Context())))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := h.store.Add(c.Request.Context(), req.ProductID, quantity(req.Quantity)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.view(c, h.store.Read(c.Request.Context())))
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := h.store.SetQuantity(c.Request.Context(), c.Param("id"), quantity(req.Quantity)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.view(c, h.store.Read(c.Request.Context())))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	if err := h.store.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.view(c, h.store.Read(c.Request.Context())))
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.view(c, []cart.Entry{}))
}

// Stream pushes the cart every time it changes, including changes made by other contexts.
// Bursts collapse: the writer always sends the latest cart.
func (h *CartHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	changed := make(chan struct{}, 1)
	changed <- struct{}{}
	cancel := h.store.Subscribe(func([]cart.Entry) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx := c.Request.Context()
	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-changed:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(h.view(c, h.store.Read(ctx))); err != nil {
				h.log.Debug("cart stream closed", logger.Error(err))
				return
			}
		}
	}
}

func quantity(v any) int {
	switch q := v.(type) {
	case nil:
		return 1
	case string:
		return cart.ParseQuantity(q)
	case float64, int:
		return cart.NormalizeQuantity(q)
	}
	return cart.ParseQuantity(fmt.Sprint(v))
}
