package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/balcao/backend/models"
	"github.com/balcao/backend/pricing"
	"github.com/balcao/backend/repository"
)

// StockDigest lists the products that need the manager's attention.
type StockDigest struct {
	Day          time.Time
	BelowMinimum []models.Product
	Expired      []models.Product
}

func (d StockDigest) Empty() bool {
	return len(d.BelowMinimum) == 0 && len(d.Expired) == 0
}

func (d StockDigest) Subject() string {
	return fmt.Sprintf("Estoque %s: %d abaixo do minimo, %d vencidos",
		pricing.FormatDate(d.Day), len(d.BelowMinimum), len(d.Expired))
}

func (d StockDigest) Body() string {
	var b strings.Builder
	if len(d.BelowMinimum) > 0 {
		b.WriteString("Abaixo do estoque minimo:\n")
		for _, p := range d.BelowMinimum {
			fmt.Fprintf(&b, "  %s %s: %d %s (minimo %d)\n", p.Code, p.Name, p.Stock, p.Unit, p.StockMin)
		}
	}
	if len(d.Expired) > 0 {
		b.WriteString("Vencidos:\n")
		for _, p := range d.Expired {
			fmt.Fprintf(&b, "  %s %s: validade %s, %d em estoque, %s cada\n",
				p.Code, p.Name, p.ValidityDate, p.Stock, pricing.FormatBRL(p.UnitPrice))
		}
	}
	return b.String()
}

// StockAlert gathers the daily digest, logs it and mails it when a mailer
// is configured.
type StockAlert struct {
	products repository.Products
	mailer   *Mailer
	to       []string
	log      *zap.Logger
	now      func() time.Time
}

func NewStockAlert(products repository.Products, mailer *Mailer, to []string, log *zap.Logger) *StockAlert {
	return &StockAlert{products: products, mailer: mailer, to: to, log: log, now: time.Now}
}

func (a *StockAlert) Run(ctx context.Context) (StockDigest, error) {
	today := a.now()
	digest := StockDigest{Day: today}

	var err error
	if digest.BelowMinimum, err = a.products.BelowMinimum(ctx); err != nil {
		return digest, err
	}
	if digest.Expired, err = a.products.ExpiredAsOf(ctx, today); err != nil {
		return digest, err
	}

	a.log.Info("stock check",
		zap.Int("below_minimum", len(digest.BelowMinimum)),
		zap.Int("expired", len(digest.Expired)))
	if digest.Empty() || a.mailer == nil || len(a.to) == 0 {
		return digest, nil
	}
	if err := a.mailer.SendEmail(a.to, digest.Subject(), digest.Body()); err != nil {
		a.log.Error("stock alert e-mail not sent", zap.Error(err))
		return digest, err
	}
	return digest, nil
}

// ScheduleStockAlert registers the alert to run every day at HH:MM in loc.
// The caller starts and stops the returned scheduler.
func ScheduleStockAlert(loc *time.Location, at string, alert *StockAlert) (*gocron.Scheduler, error) {
	if _, err := pricing.ParseClock(at); err != nil {
		return nil, err
	}
	s := gocron.NewScheduler(loc)
	_, err := s.Every(1).Day().At(at).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := alert.Run(ctx); err != nil {
			alert.log.Error("stock check failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
