package commerce

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// OrdersCSVHeader is the header row of the order export.
var OrdersCSVHeader = []string{
	"order_id", "user_id", "order_date", "status", "payment_method", "total_amount",
	"product_id", "product_name", "price", "quantity", "total_price",
}

// WriteOrdersCSV writes one row per order item. An order without items
// still produces one row with empty item columns.
func WriteOrdersCSV(w io.Writer, orders []Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(OrdersCSVHeader); err != nil {
		return err
	}

	for _, o := range orders {
		head := []string{
			o.OrderID,
			o.UserID,
			o.OrderDate.UTC().Format(time.RFC3339),
			o.Status,
			o.PaymentMethod,
			formatFloat(o.TotalAmount),
		}
		if len(o.Items) == 0 {
			if err := cw.Write(append(head, "", "", "", "", "")); err != nil {
				return err
			}
			continue
		}
		for _, item := range o.Items {
			row := append(append([]string{}, head...),
				item.ProductID,
				item.ProductName,
				formatFloat(item.Price),
				strconv.Itoa(item.Quantity),
				formatFloat(item.TotalPrice),
			)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
