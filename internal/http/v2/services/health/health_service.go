// Package health contiene el service para health checks.
package health

import (
	"context"
	"fmt"
	"time"

	dto "github.com/dropDatabas3/keycheck/internal/http/v2/dto/health"
	"github.com/dropDatabas3/keycheck/internal/observability/logger"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	StoreCheck  func(ctx context.Context) error // ping del backend de keys
	StoreDriver string
	Timeout     time.Duration // límite del ping; 0 = 2s
	Version     string
	Commit      string
	Clock       func() time.Time
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	if deps.Timeout <= 0 {
		deps.Timeout = 2 * time.Second
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &healthService{deps: deps}
}

const componentHealth = "health"

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentHealth),
		logger.Op("Check"),
	)

	response := dto.HealthResponse{
		Status:     "ready",
		Version:    s.deps.Version,
		Commit:     s.deps.Commit,
		Components: make(map[string]dto.HealthStatus),
		Timestamp:  s.deps.Clock().UTC(),
	}

	name := "store"
	if s.deps.StoreDriver != "" {
		name = "store_" + s.deps.StoreDriver
	}

	// Store (crítico)
	if s.deps.StoreCheck == nil {
		response.Components[name] = dto.HealthStatus{Status: "error", Message: "store not initialized"}
		response.Status = "unavailable"
		return response
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()
	if err := s.deps.StoreCheck(pingCtx); err != nil {
		response.Components[name] = dto.HealthStatus{
			Status:  "error",
			Message: fmt.Sprintf("unavailable: %v", err),
		}
		response.Status = "unavailable"
		log.Error("store unavailable", logger.Driver(s.deps.StoreDriver), logger.Err(err))
		return response
	}
	response.Components[name] = dto.HealthStatus{Status: "ok"}
	return response
}
