package usecase

import (
	"context"
	"fmt"

	"HealthPull/internal/domain/models"
	domrepo "HealthPull/internal/domain/repository"
)

// RecordsQueryUseCase provides business logic for reading archived records.
type RecordsQueryUseCase struct {
	window domrepo.RecordWindow
}

func NewRecordsQueryUseCase(window domrepo.RecordWindow) *RecordsQueryUseCase {
	return &RecordsQueryUseCase{window: window}
}

type GetRecordsParams struct {
	Family domrepo.MetricFamily
	Days   int
}

type GetRecordsResult struct {
	Family    string
	Days      int
	Count     int
	Sleep     []models.SleepRecord     `json:",omitempty"`
	Readiness []models.ReadinessRecord `json:",omitempty"`
	Activity  []models.ActivityRecord  `json:",omitempty"`
}

func (uc *RecordsQueryUseCase) GetRecords(ctx context.Context, p GetRecordsParams) (*GetRecordsResult, error) {
	if !domrepo.IsValidFamily(p.Family) {
		return nil, fmt.Errorf("unknown family: %s", p.Family)
	}
	if p.Days <= 0 {
		p.Days = 30
	}
	if p.Days > 365 {
		p.Days = 365
	}

	res := &GetRecordsResult{Family: string(p.Family), Days: p.Days}
	switch p.Family {
	case domrepo.FamilySleep:
		rows, err := uc.window.SleepWindow(ctx, p.Days)
		if err != nil {
			return nil, fmt.Errorf("get records: %w", err)
		}
		res.Sleep = rows
		res.Count = len(rows)
	case domrepo.FamilyReadiness:
		rows, err := uc.window.ReadinessWindow(ctx, p.Days)
		if err != nil {
			return nil, fmt.Errorf("get records: %w", err)
		}
		res.Readiness = rows
		res.Count = len(rows)
	case domrepo.FamilyActivity:
		rows, err := uc.window.ActivityWindow(ctx, p.Days)
		if err != nil {
			return nil, fmt.Errorf("get records: %w", err)
		}
		res.Activity = rows
		res.Count = len(rows)
	}
	return res, nil
}
