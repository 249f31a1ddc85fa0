// Package sales implements the read-only query orchestration over the sales
// table: paginated listing, CSV export, full fetch and filter-option
// aggregation.
package sales

// Record is one row of the sales table as served over the API. The dataset
// is bulk-loaded once and never mutated here, so every field is a plain
// value; nulls are normalized at scan time (empty string, 0).
type Record struct {
	TransactionID      string   `json:"transaction_id"`
	Date               string   `json:"date"`
	CustomerID         string   `json:"customer_id"`
	CustomerName       string   `json:"customer_name"`
	PhoneNumber        string   `json:"phone_number"`
	Gender             string   `json:"gender"`
	Age                int      `json:"age"`
	CustomerRegion     string   `json:"customer_region"`
	CustomerType       string   `json:"customer_type"`
	ProductID          string   `json:"product_id"`
	ProductName        string   `json:"product_name"`
	Brand              string   `json:"brand"`
	ProductCategory    string   `json:"product_category"`
	Tags               []string `json:"tags"`
	Quantity           int      `json:"quantity"`
	PricePerUnit       float64  `json:"price_per_unit"`
	DiscountPercentage float64  `json:"discount_percentage"`
	TotalAmount        float64  `json:"total_amount"`
	FinalAmount        float64  `json:"final_amount"`
	PaymentMethod      string   `json:"payment_method"`
	OrderStatus        string   `json:"order_status"`
	DeliveryType       string   `json:"delivery_type"`
	StoreID            string   `json:"store_id"`
	StoreLocation      string   `json:"store_location"`
	SalespersonID      string   `json:"salesperson_id"`
	EmployeeName       string   `json:"employee_name"`
}

// Summary aggregates the full filtered set, not just the returned page.
type Summary struct {
	TotalUnitsSold int64   `json:"totalUnitsSold"`
	TotalAmount    float64 `json:"totalAmount"`
	TotalDiscount  float64 `json:"totalDiscount"`
}

// Pagination describes the window returned by List.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	Total       int64 `json:"total"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// ListResult is the full payload of one paginated list request.
type ListResult struct {
	Records    []Record
	Summary    Summary
	Pagination Pagination
}

// Range is an observed min/max pair in the filter-options snapshot.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DateRange holds observed date bounds as YYYY-MM-DD strings.
type DateRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// FilterOptions is the cached snapshot of distinct filterable values and
// observed ranges, regenerated from the full dataset on cache miss.
type FilterOptions struct {
	Regions        []string  `json:"regions"`
	Genders        []string  `json:"genders"`
	Categories     []string  `json:"categories"`
	PaymentMethods []string  `json:"paymentMethods"`
	AgeRange       Range     `json:"ageRange"`
	DateRange      DateRange `json:"dateRange"`
	Tags           []string  `json:"tags"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// exportRowCap bounds CSV exports as a safety limit.
	exportRowCap = 50000
	// fetchAllRowCap bounds the client-side "view everything" mode.
	fetchAllRowCap = 1000000
)

// ClampPage clamps a requested page number to >= 1.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// ClampLimit clamps a requested page size to [1,100], defaulting to 10 for
// non-positive input.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

// NewPagination computes the page metadata for a total match count.
func NewPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    pageSize,
		Total:       total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
