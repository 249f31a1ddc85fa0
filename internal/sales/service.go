package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/salescope/salescope/internal/cache"
	"github.com/salescope/salescope/internal/observability"
	"github.com/salescope/salescope/internal/query"
)

// Querier is the subset of pgxpool.Pool the service needs. Every operation
// is a single read-only statement, so no transactions are involved.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service composes the clause builders into count/data queries and shapes
// the results. Query failures are not retried; they propagate to the HTTP
// error handler.
type Service struct {
	db      Querier
	cache   *cache.Cache
	metrics *observability.Metrics
}

// New creates a sales service. cache and metrics may be nil.
func New(db Querier, c *cache.Cache, m *observability.Metrics) *Service {
	return &Service{db: db, cache: c, metrics: m}
}

// selectColumns is the fixed column set served by every data query. Dates
// are formatted in SQL; nullable columns are normalized so rows scan into
// plain values.
const selectColumns = `transaction_id,
	TO_CHAR(date, 'YYYY-MM-DD') AS date,
	COALESCE(customer_id, '') AS customer_id,
	COALESCE(customer_name, '') AS customer_name,
	COALESCE(phone_number, '') AS phone_number,
	COALESCE(gender, '') AS gender,
	COALESCE(age, 0) AS age,
	COALESCE(customer_region, '') AS customer_region,
	COALESCE(customer_type, '') AS customer_type,
	COALESCE(product_id, '') AS product_id,
	COALESCE(product_name, '') AS product_name,
	COALESCE(brand, '') AS brand,
	COALESCE(product_category, '') AS product_category,
	COALESCE(tags, '{}') AS tags,
	COALESCE(quantity, 0) AS quantity,
	COALESCE(price_per_unit, 0)::float8 AS price_per_unit,
	COALESCE(discount_percentage, 0)::float8 AS discount_percentage,
	COALESCE(total_amount, 0)::float8 AS total_amount,
	COALESCE(final_amount, 0)::float8 AS final_amount,
	COALESCE(payment_method, '') AS payment_method,
	COALESCE(order_status, '') AS order_status,
	COALESCE(delivery_type, '') AS delivery_type,
	COALESCE(store_id, '') AS store_id,
	COALESCE(store_location, '') AS store_location,
	COALESCE(salesperson_id, '') AS salesperson_id,
	COALESCE(employee_name, '') AS employee_name`

// List returns one page of matching records plus a summary over the full
// filtered set and pagination metadata. page clamps to >= 1, limit to
// [1,100].
func (s *Service) List(ctx context.Context, f query.Filters, page, limit int) (*ListResult, error) {
	page = ClampPage(page)
	limit = ClampLimit(limit)

	where, args := f.Where()

	start := time.Now()
	countSQL := fmt.Sprintf(`SELECT
		COUNT(*) AS total,
		COALESCE(SUM(quantity), 0)::bigint AS total_units,
		COALESCE(SUM(final_amount), 0)::float8 AS total_amount,
		COALESCE(SUM(total_amount - final_amount), 0)::float8 AS total_discount
	FROM sales %s`, where)

	var (
		total, units     int64
		amount, discount float64
	)
	if err := s.db.QueryRow(ctx, countSQL, args...).Scan(&total, &units, &amount, &discount); err != nil {
		return nil, fmt.Errorf("count sales: %w", err)
	}

	dataSQL := fmt.Sprintf("SELECT %s FROM sales %s ORDER BY %s LIMIT $%d OFFSET $%d",
		selectColumns, where, query.OrderBy(f.SortBy), len(args)+1, len(args)+2)
	dataArgs := append(append([]any{}, args...), limit, (page-1)*limit)

	rows, err := s.db.Query(ctx, dataSQL, dataArgs...)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveQuery("list", time.Since(start))

	return &ListResult{
		Records: records,
		Summary: Summary{
			TotalUnitsSold: units,
			TotalAmount:    amount,
			TotalDiscount:  discount,
		},
		Pagination: NewPagination(page, limit, total),
	}, nil
}

// Export returns every matching record up to the export row cap, in the
// requested sort order.
func (s *Service) Export(ctx context.Context, f query.Filters) ([]Record, error) {
	return s.fetch(ctx, "export", f, exportRowCap)
}

// All returns every matching record up to the fetch-all row cap. Intended
// for the client-side "view everything" mode, not routine use.
func (s *Service) All(ctx context.Context, f query.Filters) ([]Record, error) {
	return s.fetch(ctx, "all", f, fetchAllRowCap)
}

func (s *Service) fetch(ctx context.Context, op string, f query.Filters, rowCap int) ([]Record, error) {
	where, args := f.Where()

	start := time.Now()
	sql := fmt.Sprintf("SELECT %s FROM sales %s ORDER BY %s LIMIT %d",
		selectColumns, where, query.OrderBy(f.SortBy), rowCap)

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveQuery(op, time.Since(start))

	return records, nil
}

// optionsSQL computes the distinct sorted values and observed ranges in one
// round trip. Empty-table aggregates collapse to zero values.
const optionsSQL = `SELECT
	COALESCE((SELECT array_agg(DISTINCT customer_region ORDER BY customer_region) FROM sales WHERE customer_region IS NOT NULL), '{}') AS regions,
	COALESCE((SELECT array_agg(DISTINCT gender ORDER BY gender) FROM sales WHERE gender IS NOT NULL), '{}') AS genders,
	COALESCE((SELECT array_agg(DISTINCT product_category ORDER BY product_category) FROM sales WHERE product_category IS NOT NULL), '{}') AS categories,
	COALESCE((SELECT array_agg(DISTINCT payment_method ORDER BY payment_method) FROM sales WHERE payment_method IS NOT NULL), '{}') AS payment_methods,
	COALESCE((SELECT MIN(age) FROM sales WHERE age IS NOT NULL), 0) AS age_min,
	COALESCE((SELECT MAX(age) FROM sales WHERE age IS NOT NULL), 0) AS age_max,
	COALESCE((SELECT TO_CHAR(MIN(date), 'YYYY-MM-DD') FROM sales WHERE date IS NOT NULL), '') AS date_min,
	COALESCE((SELECT TO_CHAR(MAX(date), 'YYYY-MM-DD') FROM sales WHERE date IS NOT NULL), '') AS date_max`

// tagsSQL flattens the per-record tag arrays into up to 100 distinct
// trimmed values.
const tagsSQL = `SELECT DISTINCT TRIM(unnest(tags)) AS tag
	FROM sales
	WHERE tags IS NOT NULL AND array_length(tags, 1) > 0
	ORDER BY tag
	LIMIT 100`

// FilterOptions returns the snapshot of distinct filterable values, serving
// from the cache when possible. The second return reports a cache hit. A
// cache outage only forces recomputation; it never fails the request.
func (s *Service) FilterOptions(ctx context.Context) (*FilterOptions, bool, error) {
	var opts FilterOptions
	if outcome := s.cache.Get(ctx, &opts); outcome == cache.Hit {
		return &opts, true, nil
	}

	start := time.Now()
	err := s.db.QueryRow(ctx, optionsSQL).Scan(
		&opts.Regions, &opts.Genders, &opts.Categories, &opts.PaymentMethods,
		&opts.AgeRange.Min, &opts.AgeRange.Max,
		&opts.DateRange.Min, &opts.DateRange.Max,
	)
	if err != nil {
		return nil, false, fmt.Errorf("aggregate filter options: %w", err)
	}

	rows, err := s.db.Query(ctx, tagsSQL)
	if err != nil {
		return nil, false, fmt.Errorf("aggregate tags: %w", err)
	}
	defer rows.Close()

	opts.Tags = []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, false, fmt.Errorf("scan tag: %w", err)
		}
		if tag != "" {
			opts.Tags = append(opts.Tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("read tags: %w", err)
	}
	s.metrics.ObserveQuery("filter_options", time.Since(start))

	s.cache.Set(ctx, &opts)
	return &opts, false, nil
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		err := rows.Scan(
			&r.TransactionID, &r.Date, &r.CustomerID, &r.CustomerName,
			&r.PhoneNumber, &r.Gender, &r.Age, &r.CustomerRegion,
			&r.CustomerType, &r.ProductID, &r.ProductName, &r.Brand,
			&r.ProductCategory, &r.Tags, &r.Quantity, &r.PricePerUnit,
			&r.DiscountPercentage, &r.TotalAmount, &r.FinalAmount,
			&r.PaymentMethod, &r.OrderStatus, &r.DeliveryType,
			&r.StoreID, &r.StoreLocation, &r.SalespersonID, &r.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		if r.Tags == nil {
			r.Tags = []string{}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("sales rows iteration failed")
		return nil, fmt.Errorf("read sales rows: %w", err)
	}

	return records, nil
}
