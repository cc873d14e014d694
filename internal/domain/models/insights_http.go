package models

// Requests for insight HTTP endpoints. Defined in domain for consistency and reuse.

type InsightsRequest struct {
	Days int `query:"days" json:"days" default:"30" validate:"gte=7,lte=365"`
}

type BaselinesRequest struct {
	Family string `param:"family" json:"family" validate:"required,oneof=sleep readiness activity"`
	Days   int    `query:"days" json:"days" default:"30" validate:"gte=1,lte=365"`
}

type AnomaliesRequest struct {
	Days int `query:"days" json:"days" default:"30" validate:"gte=7,lte=365"`
}

type RecoveryRequest struct {
	Days int `query:"days" json:"days" default:"30" validate:"gte=7,lte=365"`
}

type TrainingReadinessRequest struct {
	Type string `query:"type" json:"type" default:"general" validate:"oneof=general endurance strength high_intensity"`
	Days int    `query:"days" json:"days" default:"30" validate:"gte=7,lte=365"`
}

type IllnessRequest struct {
	Days int `query:"days" json:"days" default:"30" validate:"gte=7,lte=365"`
}

type AlertsRequest struct {
	Days int `query:"days" json:"days" default:"7" validate:"gte=3,lte=90"`
}

type SleepNeedRequest struct {
	Days int `query:"days" json:"days" default:"60" validate:"gte=14,lte=365"`
}

type SleepDebtRequest struct {
	Days int `query:"days" json:"days" default:"30" validate:"gte=3,lte=365"`
}

type CorrelateRequest struct {
	Metric1 string `query:"metric1" json:"metric1" validate:"required"`
	Metric2 string `query:"metric2" json:"metric2" validate:"required"`
	Days    int    `query:"days" json:"days" default:"30" validate:"gte=7,lte=365"`
}

type RecordsRequest struct {
	Family string `param:"family" json:"family" validate:"required,oneof=sleep readiness activity"`
	Days   int    `query:"days" json:"days" default:"30" validate:"gte=1,lte=365"`
}

type SyncRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Async     bool   `json:"async" default:"false"`
}
