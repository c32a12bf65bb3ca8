package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency
// and reuse. Omitted fields arrive as zero and are filled by the handler from
// the configured ladder/refresh defaults.

type LadderRequest struct {
	Entry    float64 `query:"entry" json:"entry" validate:"required,gt=0"`
	StepPct  float64 `query:"step" json:"step" validate:"omitempty,gte=1,lte=50"`
	SellPct  float64 `query:"sell" json:"sell" validate:"omitempty,gte=1,lte=50"`
	MaxSteps int     `query:"steps" json:"steps" validate:"omitempty,gte=1,lte=30"`
}

type TrailingRequest struct {
	Price    float64 `query:"price" json:"price" validate:"required,gt=0"`
	TrailPct float64 `query:"trail" json:"trail" validate:"omitempty,gte=5,lte=50"`
}

type AltsRequest struct {
	N int `query:"n" json:"n" validate:"omitempty,gte=1,lte=100"`
}
