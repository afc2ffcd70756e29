package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/application/checkout"
	"storefront/internal/domain/order"
	"storefront/pkg/logger"
)

type CheckoutHandler struct {
	session *checkout.Session
	log     logger.Logger
}

func NewCheckoutHandler(session *checkout.Session, log logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{session: session, log: log}
}

type checkoutResponse struct {
	State    string         `json:"state"`
	Form     order.Customer `json:"form"`
	Order    *order.Order   `json:"order,omitempty"`
	Error    string         `json:"error,omitempty"`
	Expected *amount        `json:"expected,omitempty"`
	Cart     *cartResponse  `json:"cart,omitempty"`
}

func (h *CheckoutHandler) status(c *gin.Context, status int, withCart bool) {
	snap := h.session.Snapshot()
	resp := checkoutResponse{
		State: snap.State.String(),
		Form:  snap.Form,
		Order: snap.Order,
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
		var mismatch *checkout.PaymentMismatchError
		if errors.As(snap.Err, &mismatch) {
			expected := newAmount(mismatch.Expected)
			resp.Expected = &expected
		}
	}
	if withCart {
		quote := h.session.Quote(c.Request.Context())
		view := newCartResponse(quote, nil)
		view.Count = quote.Count()
		resp.Cart = &view
	}
	c.JSON(status, resp)
}

func (h *CheckoutHandler) Get(c *gin.Context) {
	h.status(c, http.StatusOK, h.session.State() == checkout.StateReviewing)
}

func (h *CheckoutHandler) Begin(c *gin.Context) {
	if _, err := h.session.Begin(c.Request.Context()); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.status(c, http.StatusOK, true)
}

func (h *CheckoutHandler) UpdateForm(c *gin.Context) {
	var form order.Customer
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := h.session.UpdateForm(form); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.status(c, http.StatusOK, false)
}

// Submit answers 201 with the order, or 422 with the expected total when the amount differs.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	_, err := h.session.Submit(c.Request.Context())
	var mismatch *checkout.PaymentMismatchError
	switch {
	case err == nil:
		h.status(c, http.StatusCreated, false)
	case errors.As(err, &mismatch):
		h.status(c, http.StatusUnprocessableEntity, false)
	default:
		respondError(c, h.log, err)
	}
}

func (h *CheckoutHandler) Acknowledge(c *gin.Context) {
	h.session.Acknowledge()
	h.status(c, http.StatusOK, false)
}
