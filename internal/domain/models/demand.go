package models

import "time"

// HistoricalRecord is one observed day of demand for a product.
// Records are immutable once appended; a product's series keeps at most
// one record per calendar day and at most 365 days of history.
type HistoricalRecord struct {
	ProductID       string
	Date            time.Time // calendar day, UTC midnight
	Demand          float64
	Sales           float64
	Price           float64
	Promotion       bool
	ExternalFactors map[string]string
	AddedAt         time.Time
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ProductStock is the inventory view of a single product at evaluation time.
// PredictedDemand is nil when no live forecast exists for the product.
type ProductStock struct {
	CurrentStock    float64
	PredictedDemand *float64
}

// InventorySnapshot maps product id to its stock view for one evaluation pass.
type InventorySnapshot map[string]ProductStock
