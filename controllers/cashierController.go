package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/balcao/backend/apperr"
	"github.com/balcao/backend/middleware"
	"github.com/balcao/backend/models"
	"github.com/balcao/backend/pricing"
)

// GetProducts lists the catalog. One of ?below=N, ?belowMinimum=1 or
// ?expired=1 narrows it to the matching stock query.
func (h *Handler) GetProducts(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	var (
		products []models.Product
		err      error
	)
	switch {
	case c.Query("below") != "":
		threshold, convErr := strconv.Atoi(c.Query("below"))
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "below must be an integer"})
			return
		}
		products, err = h.repos.Products.StockBelow(ctx, threshold)
	case isSet(c.Query("belowMinimum")):
		products, err = h.repos.Products.BelowMinimum(ctx)
	case isSet(c.Query("expired")):
		products, err = h.repos.Products.ExpiredAsOf(ctx, time.Now())
	default:
		products, err = h.repos.Products.List(ctx)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func isSet(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func (h *Handler) GetProductByCode(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	p, err := h.repos.Products.FindByCode(ctx, c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) GetCustomerByDocument(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	customer, err := h.repos.Customers.FindByDocument(ctx, c.Param("document"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// CreateSale commits a basket. The cashier defaults to the logged-in user.
func (h *Handler) CreateSale(c *gin.Context) {
	var basket models.Basket
	if err := c.ShouldBindJSON(&basket); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if basket.CashierID == "" {
		basket.CashierID = c.GetString(middleware.UserIDKey)
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	receipt, err := h.checkout.CommitSale(ctx, basket)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *Handler) GetSale(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	lines, err := h.repos.Sales.BySaleID(ctx, c.Param("saleID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(lines) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}

	// Line subtotals already carry their share of the basket discount.
	var total float64
	for _, l := range lines {
		total += l.Subtotal
	}
	c.JSON(http.StatusOK, gin.H{
		"sale_id":  lines[0].SaleID,
		"lines":    lines,
		"discount": lines[0].Discount,
		"total":    pricing.Round2(total),
	})
}

type reservationRequest struct {
	VenueID       string             `json:"venue_id"`
	CustomerID    string             `json:"customer_id"`
	Date          string             `json:"date"`
	HourStart     string             `json:"hour_start"`
	HourEnd       string             `json:"hour_end"`
	PaymentMethod string             `json:"payment_method"`
	ConsumedItems []models.DraftItem `json:"consumed_items"`
}

// parseDay reads an optional yyyy-mm-dd value in local time. Empty yields the
// zero time.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(models.DateLayout, s, time.Local)
}

func (h *Handler) CreateReservation(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := parseDay(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyy-mm-dd"})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	r, err := h.checkout.CommitReservation(ctx, models.ReservationDraft{
		VenueID:       req.VenueID,
		CustomerID:    req.CustomerID,
		Date:          day,
		HourStart:     req.HourStart,
		HourEnd:       req.HourEnd,
		PaymentMethod: req.PaymentMethod,
		ConsumedItems: req.ConsumedItems,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// GetReservations lists every reservation, or one venue's day when both
// ?venue and ?date are given.
func (h *Handler) GetReservations(c *gin.Context) {
	day, err := parseDay(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyy-mm-dd"})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	var list []models.Reservation
	if venue := c.Query("venue"); venue != "" && !day.IsZero() {
		list, err = h.repos.Reservations.ForVenueDate(ctx, venue, day)
	} else {
		list, err = h.repos.Reservations.List(ctx)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Reservation{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetAvailability(c *gin.Context) {
	day, err := parseDay(c.Query("date"))
	if err != nil || day.IsZero() || c.Query("venue") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "venue and date (yyyy-mm-dd) are required"})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	clash, err := h.checkout.Conflicts().FindConflict(ctx, c.Query("venue"), day, c.Query("start"), c.Query("end"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp := gin.H{"available": clash == nil}
	if clash != nil {
		resp["conflict"] = gin.H{"hour_start": clash.HourStart, "hour_end": clash.HourEnd}
	}
	c.JSON(http.StatusOK, resp)
}

type reservationKeyRequest struct {
	VenueID   string `json:"venue_id"`
	Date      string `json:"date"`
	HourStart string `json:"hour_start"`
	HourEnd   string `json:"hour_end"`
}

func (h *Handler) CancelReservation(c *gin.Context) {
	var req reservationKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := parseDay(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyy-mm-dd"})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	cancelled, err := h.checkout.CancelReservation(ctx, models.ReservationKey{
		VenueID:   req.VenueID,
		Date:      day,
		HourStart: req.HourStart,
		HourEnd:   req.HourEnd,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !cancelled {
		h.respondError(c, fmt.Errorf("%w: venue %s on %s from %s to %s",
			apperr.ErrUnknownReservation, req.VenueID, req.Date, req.HourStart, req.HourEnd))
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}
