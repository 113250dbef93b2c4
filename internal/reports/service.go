package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleetops-backend/internal/forecast"
	"fleetops-backend/internal/models"
	"fleetops-backend/internal/store"
	"fleetops-backend/internal/tabular"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrUnknownScript maps onto 404.
var ErrUnknownScript = fmt.Errorf("%w: unknown script", tabular.ErrDatasetNotFound)

type Service struct {
	Store store.Store
	DB    *gorm.DB // audit trail; nil disables run records
}

// RunParams are the optional overrides for one script run. Zero values fall
// back to the defaults.
type RunParams struct {
	StartYear int                           `json:"start_year"`
	EndYear   int                           `json:"end_year"`
	Costs     map[string]forecast.ClassCost `json:"costs"`
}

func (p RunParams) years() forecast.YearRange {
	years := forecast.DefaultYearRange
	if p.StartYear != 0 {
		years.Start = p.StartYear
	}
	if p.EndYear != 0 {
		years.End = p.EndYear
	}
	return years
}

func (p RunParams) costParams() forecast.CostParams {
	params := forecast.DefaultCostParams()
	for class, cc := range p.Costs {
		params.Classes[forecast.Class(class)] = cc
	}
	return params
}

// RunResult is the script outcome returned to the caller.
type RunResult struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Output  map[string]interface{} `json:"output"`
}

// RunScript executes a registered script, overwrites its report datasets,
// and records an audit row. A failed script still gets an audit row; the
// script error is returned either way.
func (s *Service) RunScript(ctx context.Context, name string, params RunParams, triggeredBy *uuid.UUID) (*RunResult, error) {
	sc, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScript, name)
	}
	if err := params.years().Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	output, msg, runErr := sc.run(ctx, s, params)
	duration := time.Since(start)

	status := models.RunStatusSucceeded
	if runErr != nil {
		status = models.RunStatusFailed
		msg = runErr.Error()
	}
	s.recordRun(name, params, triggeredBy, status, msg, output, duration)

	if runErr != nil {
		return nil, runErr
	}
	log.Info().Str("script", name).Dur("duration", duration).Msg("script run complete")
	return &RunResult{Success: true, Message: msg, Output: output}, nil
}

func (s *Service) recordRun(name string, params RunParams, triggeredBy *uuid.UUID, status, msg string, output map[string]interface{}, duration time.Duration) {
	if s.DB == nil {
		return
	}
	paramsJSON, _ := json.Marshal(params)
	outputJSON, _ := json.Marshal(output)
	run := models.ScriptRun{
		Script:      name,
		TriggeredBy: triggeredBy,
		Params:      datatypes.JSON(paramsJSON),
		Status:      status,
		Message:     msg,
		Output:      datatypes.JSON(outputJSON),
		DurationMS:  duration.Milliseconds(),
	}
	if err := s.DB.Create(&run).Error; err != nil {
		log.Error().Err(err).Str("script", name).Msg("failed to record script run")
	}
}

// ListRuns returns the most recent audit rows, newest first.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]models.ScriptRun, error) {
	if s.DB == nil {
		return nil, errors.New("script run audit is not configured")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var runs []models.ScriptRun
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
