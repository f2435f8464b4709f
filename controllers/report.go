package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/balcao/backend/export"
	"github.com/balcao/backend/reports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportFilter reads ?from, ?to (yyyy-mm-dd) and the text filters.
func reportFilter(c *gin.Context) (reports.FilterSpec, error) {
	from, err := parseDay(c.Query("from"))
	if err != nil {
		return reports.FilterSpec{}, errors.New("from must be yyyy-mm-dd")
	}
	to, err := parseDay(c.Query("to"))
	if err != nil {
		return reports.FilterSpec{}, errors.New("to must be yyyy-mm-dd")
	}
	return reports.FilterSpec{
		DateFrom:      from,
		DateTo:        to,
		Customer:      c.Query("customer"),
		Product:       c.Query("product"),
		Supplier:      c.Query("supplier"),
		PaymentMethod: c.Query("payment"),
		Venue:         c.Query("venue"),
	}, nil
}

func (h *Handler) SalesReport(c *gin.Context) {
	h.report(c, reports.KindSales)
}

func (h *Handler) ReservationsReport(c *gin.Context) {
	h.report(c, reports.KindReservations)
}

// report answers JSON, or a workbook when the route ends in .xlsx or
// ?format=xlsx is given.
func (h *Handler) report(c *gin.Context, kind reports.Kind) {
	f, err := reportFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	var rep *reports.Report
	if kind == reports.KindSales {
		rep, err = h.reports.Sales(ctx, f)
	} else {
		rep, err = h.reports.Reservations(ctx, f)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	if !strings.HasSuffix(c.Request.URL.Path, ".xlsx") && c.Query("format") != "xlsx" {
		c.JSON(http.StatusOK, rep)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, string(kind), rep.Table(), rep.FooterCells()); err != nil {
		h.respondError(c, err)
		return
	}
	name := fmt.Sprintf("%s-%s.xlsx", kind, time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
