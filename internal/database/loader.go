package database

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// loadBatchSize is how many rows go into one pipelined batch.
const loadBatchSize = 500

// seedRecord is one parsed row of the source CSV. Numeric fields are nil
// when absent or unparseable; they load as NULL.
type seedRecord struct {
	TransactionID      string
	Date               string
	CustomerID         string
	CustomerName       string
	PhoneNumber        string
	Gender             string
	Age                *int
	CustomerRegion     string
	CustomerType       string
	ProductID          string
	ProductName        string
	Brand              string
	ProductCategory    string
	Tags               []string
	Quantity           *int
	PricePerUnit       *float64
	DiscountPercentage *float64
	TotalAmount        *float64
	FinalAmount        *float64
	PaymentMethod      string
	OrderStatus        string
	DeliveryType       string
	StoreID            string
	StoreLocation      string
	SalespersonID      string
	EmployeeName       string
}

const insertSQL = `INSERT INTO sales (
	transaction_id, date, customer_id, customer_name, phone_number,
	gender, age, customer_region, customer_type, product_id,
	product_name, brand, product_category, tags, quantity,
	price_per_unit, discount_percentage, total_amount, final_amount,
	payment_method, order_status, delivery_type, store_id,
	store_location, salesperson_id, employee_name
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
ON CONFLICT (transaction_id) DO NOTHING`

// Load clears the sales table and bulk-imports a CSV export in fixed-size
// batches. Rows without a transaction identifier are skipped; duplicate
// identifiers within the file are ignored by the upsert. Returns the number
// of rows inserted and skipped.
func (c *Connection) Load(ctx context.Context, r io.Reader) (int, int, error) {
	records, skipped, err := parseRecords(r)
	if err != nil {
		return 0, 0, err
	}
	if len(records) == 0 {
		return 0, skipped, fmt.Errorf("no valid records found in CSV")
	}
	log.Info().Int("records", len(records)).Int("skipped", skipped).Msg("parsed import file")

	if _, err := c.Pool.Exec(ctx, "TRUNCATE TABLE sales RESTART IDENTITY CASCADE"); err != nil {
		return 0, skipped, fmt.Errorf("clear sales table: %w", err)
	}

	inserted := 0
	for start := 0; start < len(records); start += loadBatchSize {
		end := start + loadBatchSize
		if end > len(records) {
			end = len(records)
		}

		batch := &pgx.Batch{}
		for _, rec := range records[start:end] {
			batch.Queue(insertSQL,
				rec.TransactionID, rec.Date, nullable(rec.CustomerID), nullable(rec.CustomerName),
				nullable(rec.PhoneNumber), nullable(rec.Gender), rec.Age, nullable(rec.CustomerRegion),
				nullable(rec.CustomerType), nullable(rec.ProductID), nullable(rec.ProductName),
				nullable(rec.Brand), nullable(rec.ProductCategory), rec.Tags, rec.Quantity,
				rec.PricePerUnit, rec.DiscountPercentage, rec.TotalAmount, rec.FinalAmount,
				nullable(rec.PaymentMethod), nullable(rec.OrderStatus), nullable(rec.DeliveryType),
				nullable(rec.StoreID), nullable(rec.StoreLocation), nullable(rec.SalespersonID),
				nullable(rec.EmployeeName),
			)
		}

		br := c.Pool.SendBatch(ctx, batch)
		for range records[start:end] {
			tag, err := br.Exec()
			if err != nil {
				br.Close()
				return inserted, skipped, fmt.Errorf("insert batch: %w", err)
			}
			inserted += int(tag.RowsAffected())
		}
		if err := br.Close(); err != nil {
			return inserted, skipped, fmt.Errorf("close batch: %w", err)
		}

		log.Info().Int("inserted", inserted).Int("total", len(records)).Msg("import progress")
	}

	return inserted, skipped, nil
}

// parseRecords reads the tabular source, skipping rows that lack a
// transaction identifier.
func parseRecords(r io.Reader) ([]seedRecord, int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["Transaction ID"]; !ok {
		return nil, 0, fmt.Errorf("csv missing %q column", "Transaction ID")
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		records []seedRecord
		skipped int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("read csv row: %w", err)
		}

		txID := field(row, "Transaction ID")
		if txID == "" {
			skipped++
			continue
		}

		records = append(records, seedRecord{
			TransactionID:      txID,
			Date:               field(row, "Date"),
			CustomerID:         field(row, "Customer ID"),
			CustomerName:       field(row, "Customer Name"),
			PhoneNumber:        field(row, "Phone Number"),
			Gender:             field(row, "Gender"),
			Age:                parseIntField(field(row, "Age")),
			CustomerRegion:     field(row, "Customer Region"),
			CustomerType:       field(row, "Customer Type"),
			ProductID:          field(row, "Product ID"),
			ProductName:        field(row, "Product Name"),
			Brand:              field(row, "Brand"),
			ProductCategory:    field(row, "Product Category"),
			Tags:               parseTags(field(row, "Tags")),
			Quantity:           parseIntField(field(row, "Quantity")),
			PricePerUnit:       parseFloatField(field(row, "Price per Unit")),
			DiscountPercentage: parseFloatField(field(row, "Discount Percentage")),
			TotalAmount:        parseFloatField(field(row, "Total Amount")),
			FinalAmount:        parseFloatField(field(row, "Final Amount")),
			PaymentMethod:      field(row, "Payment Method"),
			OrderStatus:        field(row, "Order Status"),
			DeliveryType:       field(row, "Delivery Type"),
			StoreID:            field(row, "Store ID"),
			StoreLocation:      field(row, "Store Location"),
			SalespersonID:      field(row, "Salesperson ID"),
			EmployeeName:       field(row, "Employee Name"),
		})
	}

	return records, skipped, nil
}

// parseTags splits a comma-joined tag cell into trimmed non-empty values.
func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func parseIntField(raw string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatField(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// nullable maps empty strings to NULL so the table matches the original
// bulk-loaded shape.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
