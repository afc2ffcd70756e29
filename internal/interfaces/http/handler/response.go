package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/application/checkout"
	"storefront/internal/application/report"
	"storefront/internal/domain/cart"
	"storefront/internal/domain/pricing"
	"storefront/pkg/logger"
	"storefront/pkg/money"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps engine errors to HTTP: rejected payment 422, broken
// preconditions 409, bad input 400, everything else 500.
func statusFor(err error) int {
	var mismatch *checkout.PaymentMismatchError
	switch {
	case errors.As(err, &mismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrNotReviewing),
		errors.Is(err, checkout.ErrAwaitingAcknowledge):
		return http.StatusConflict
	case errors.Is(err, cart.ErrMissingProductID),
		errors.Is(err, report.ErrInvalidDate),
		errors.Is(err, report.ErrUnknownKind),
		errors.Is(err, report.ErrUnknownFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, log logger.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", logger.String("path", c.FullPath()), logger.Error(err))
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

type amount struct {
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

func newAmount(d decimal.Decimal) amount {
	return amount{Value: d.InexactFloat64(), Formatted: money.Format(d)}
}

type lineResponse struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Image     string `json:"image,omitempty"`
	Price     amount `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal amount `json:"line_total"`
}

type cartResponse struct {
	Items []lineResponse `json:"items"`
	Total amount         `json:"total"`
	Count int            `json:"count"`
}

// newCartResponse renders resolved lines; count is the badge value over every stored entry.
func newCartResponse(res pricing.Resolution, entries []cart.Entry) cartResponse {
	items := make([]lineResponse, 0, len(res.Lines))
	for _, l := range res.Lines {
		items = append(items, lineResponse{
			ProductID: l.Product.ID,
			Title:     l.Product.Title,
			Image:     l.Product.Image,
			Price:     newAmount(decimal.NewFromFloat(l.Product.Price)),
			Quantity:  l.Quantity,
			LineTotal: newAmount(l.LineTotal),
		})
	}
	return cartResponse{
		Items: items,
		Total: newAmount(res.Total),
		Count: cart.Count(entries),
	}
}
