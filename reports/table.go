package reports

// Table is the column schema and cell grid an export writer consumes. Cells
// hold raw values: time.Time for dates, int for quantities and float64 for
// money. Formatting is the writer's job.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

var (
	salesColumns = []string{
		"Date", "Customer", "Supplier", "Product", "Payment", "Qty",
		"Unit cost", "Unit price", "Line cost", "Line revenue", "Profit",
	}
	reservationColumns = []string{
		"Date", "Venue", "Customer", "Supplier", "Product", "Payment", "Qty",
		"Unit cost", "Unit price", "Line cost", "Line revenue", "Profit",
	}
)

// Table lays the report out for export. Reservation reports carry a venue
// column.
func (r *Report) Table() Table {
	t := Table{Rows: make([][]any, 0, len(r.Rows))}
	if r.Kind == KindReservations {
		t.Columns = reservationColumns
	} else {
		t.Columns = salesColumns
	}
	for _, row := range r.Rows {
		cells := []any{row.Date}
		if r.Kind == KindReservations {
			cells = append(cells, row.Venue)
		}
		cells = append(cells,
			row.Customer, row.Supplier, row.Product, row.PaymentMethod, row.Quantity,
			row.UnitCost, row.UnitPrice, row.LineCost, row.LineRevenue, row.Profit,
		)
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// FooterCells is the totals line that export writers append under the grid.
func (r *Report) FooterCells() []any {
	return []any{"Total", r.Footer.RowCount, r.Footer.SumCost, r.Footer.SumRevenue, r.Footer.Profit}
}
