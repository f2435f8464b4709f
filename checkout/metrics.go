package checkout

import "github.com/prometheus/client_golang/prometheus"

var (
	checkoutTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balcao_checkout_total",
			Help: "Checkout operations by outcome",
		},
		[]string{"operation", "result"},
	)

	stockUnitsMoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balcao_stock_units_moved_total",
			Help: "Stock units taken out by commits and put back by reversals",
		},
		[]string{"direction"},
	)
)

// Collectors returns the checkout metrics for registration by the host.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{checkoutTotal, stockUnitsMoved}
}
