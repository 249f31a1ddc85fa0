package sales

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// csvColumns is the fixed export header, matching the record field order.
var csvColumns = []string{
	"transaction_id", "date", "customer_id", "customer_name", "phone_number",
	"gender", "age", "customer_region", "customer_type", "product_id",
	"product_name", "brand", "product_category", "tags", "quantity",
	"price_per_unit", "discount_percentage", "total_amount", "final_amount",
	"payment_method", "order_status", "delivery_type", "store_id",
	"store_location", "salesperson_id", "employee_name",
}

// WriteCSV writes records as delimited text with the fixed 26-column header.
// The header row is always written, even for an empty result.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.TransactionID,
			r.Date,
			r.CustomerID,
			r.CustomerName,
			r.PhoneNumber,
			r.Gender,
			strconv.Itoa(r.Age),
			r.CustomerRegion,
			r.CustomerType,
			r.ProductID,
			r.ProductName,
			r.Brand,
			r.ProductCategory,
			strings.Join(r.Tags, ","),
			strconv.Itoa(r.Quantity),
			formatAmount(r.PricePerUnit),
			formatAmount(r.DiscountPercentage),
			formatAmount(r.TotalAmount),
			formatAmount(r.FinalAmount),
			r.PaymentMethod,
			r.OrderStatus,
			r.DeliveryType,
			r.StoreID,
			r.StoreLocation,
			r.SalespersonID,
			r.EmployeeName,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ExportFilename builds the timestamped attachment name for a CSV export.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("sales_export_%d.csv", now.UnixMilli())
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
