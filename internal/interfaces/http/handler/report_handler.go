package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/application/report"
	"storefront/internal/domain/record"
	"storefront/pkg/logger"
)

type ReportHandler struct {
	svc *report.Service
	log logger.Logger
}

func NewReportHandler(svc *report.Service, log logger.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, log: log}
}

type summaryResponse struct {
	Start          string `json:"start,omitempty"`
	End            string `json:"end,omitempty"`
	TotalVentas    amount `json:"total_ventas"`
	CantidadVentas int    `json:"cantidad_ventas"`
}

func (h *ReportHandler) dateRange(c *gin.Context) (report.DateRange, bool) {
	r, err := report.ParseRange(c.Query("start"), c.Query("end"), h.svc.Location())
	if err != nil {
		respondError(c, h.log, err)
		return report.DateRange{}, false
	}
	return r, true
}

func newSummaryResponse(c *gin.Context, s report.Summary) summaryResponse {
	return summaryResponse{
		Start:          c.Query("start"),
		End:            c.Query("end"),
		TotalVentas:    newAmount(s.TotalVentas),
		CantidadVentas: s.CantidadVentas,
	}
}

func (h *ReportHandler) Summary(c *gin.Context) {
	r, ok := h.dateRange(c)
	if !ok {
		return
	}
	result := h.svc.Report(c.Request.Context(), r)
	c.JSON(http.StatusOK, newSummaryResponse(c, result.Summary))
}

// Orders lists the filtered orders newest first, rendered through the same
// field table the export uses.
func (h *ReportHandler) Orders(c *gin.Context) {
	r, ok := h.dateRange(c)
	if !ok {
		return
	}
	result := h.svc.Report(c.Request.Context(), r)
	c.JSON(http.StatusOK, gin.H{
		"summary": newSummaryResponse(c, result.Summary),
		"orders":  rowMaps(record.Orders, result.Orders),
	})
}

// Contacts lists the contact messages newest first.
func (h *ReportHandler) Contacts(c *gin.Context) {
	contacts := h.svc.Contacts(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"contacts": rowMaps(record.Contacts, contacts)})
}

func rowMaps(schema record.Schema, records []record.Record) []map[string]string {
	header := schema.Header()
	rows := make([]map[string]string, 0, len(records))
	for _, row := range schema.Rows(records) {
		m := make(map[string]string, len(header))
		for i, name := range header {
			m[name] = row[i]
		}
		rows = append(rows, m)
	}
	return rows
}

func (h *ReportHandler) Export(c *gin.Context) {
	kind, err := report.ParseKind(c.Param("kind"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	r, ok := h.dateRange(c)
	if !ok {
		return
	}
	if _, err := h.svc.Download(c.Request.Context(), attachment{c: c}, kind, r, c.DefaultQuery("format", "csv")); err != nil {
		respondError(c, h.log, err)
	}
}

// attachment is the browser download: the export becomes the response body.
type attachment struct {
	c *gin.Context
}

func (a attachment) Download(_ context.Context, e report.Export) error {
	a.c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", e.Filename))
	a.c.Data(http.StatusOK, e.ContentType, e.Body)
	return nil
}
