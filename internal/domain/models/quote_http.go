package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type SourceRequest struct {
	ID string `param:"id" json:"id" validate:"required"`
}

type HistoryRequest struct {
	Source string `query:"source" json:"source" validate:"required"`
	Name   string `query:"name" json:"name" validate:"required"`
	Hours  int    `query:"hours" json:"hours" default:"24" validate:"gte=1,lte=720"`
	Limit  int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=10000"`
}
