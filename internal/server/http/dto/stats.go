package dto

import "github.com/shopspring/decimal"

// StatsResponse aggregates the loaded order collection.
type StatsResponse struct {
	Total    int             `json:"total"`
	ByStatus map[string]int  `json:"byStatus"`
	Revenue  decimal.Decimal `json:"revenue"`
	Average  decimal.Decimal `json:"average"`
}
