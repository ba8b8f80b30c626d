package dto

// ReportBucket is one time bucket of a revenue or refund report. Key is
// YYYY-MM-DD for daily reports and YYYY-MM for monthly ones.
type ReportBucket struct {
	Bucket string  `json:"bucket"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
}

// ReportSummary carries the dashboard headline metrics derived from the
// revenue and refund reports for the same window.
type ReportSummary struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalRefunds      float64 `json:"totalRefunds"`
	NetRevenue        float64 `json:"netRevenue"`
	OrderCount        int     `json:"orderCount"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

// TotalRefundedResponse reports the all-time refunded sum.
type TotalRefundedResponse struct {
	Total float64 `json:"total"`
}
