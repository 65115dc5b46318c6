package models

// Requests for the forecasting HTTP endpoints. Defined in domain for consistency and reuse.

type CreateForecastRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	HorizonDays int    `json:"forecast_period_days" default:"30" validate:"gte=1,lte=90"`
}

type AppendHistoricalRequest struct {
	ProductID       string            `json:"product_id" validate:"required"`
	Date            string            `json:"date" validate:"required"`
	Demand          float64           `json:"demand" validate:"gte=0"`
	Sales           float64           `json:"sales" validate:"gte=0"`
	Price           float64           `json:"price" validate:"gte=0"`
	Promotion       bool              `json:"promotions"`
	ExternalFactors map[string]string `json:"external_factors"`
}

type ForecastAccuracyRequest struct {
	ActualDemand float64 `json:"actual_demand" validate:"gte=0"`
	PeriodEnd    string  `json:"period_end_date" validate:"required"`
}
