package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
)

// PlanCache stores serialized action plans. Get reports a miss with
// found == false and a nil error.
type PlanCache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

type GetActionPlanQuery struct {
	Project string
}

// GetActionPlanHandler computes a project's action plan, consulting the
// cache first. Cache failures are logged and never fail the query.
type GetActionPlanHandler struct {
	projectRepo project.Repository
	cache       PlanCache
	logger      *slog.Logger
}

// NewGetActionPlanHandler creates the handler. cache may be nil.
func NewGetActionPlanHandler(projectRepo project.Repository, cache PlanCache, logger *slog.Logger) *GetActionPlanHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetActionPlanHandler{
		projectRepo: projectRepo,
		cache:       cache,
		logger:      logger,
	}
}

// PlanCacheKey identifies a plan by project and last modification, so any
// edit makes older entries unreachable.
func PlanCacheKey(p *project.Project) string {
	return fmt.Sprintf("plan:%s:%d", p.ID(), p.UpdatedAt().UnixNano())
}

func (h *GetActionPlanHandler) Handle(ctx context.Context, query GetActionPlanQuery) (*ActionPlanDTO, error) {
	p, err := h.projectRepo.FindByName(ctx, query.Project)
	if err != nil {
		return nil, err
	}

	key := PlanCacheKey(p)
	if h.cache != nil {
		if plan, ok := h.cached(ctx, key); ok {
			return plan, nil
		}
	}

	plan, err := BuildActionPlan(p.Tasks())
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", p.Name(), err)
	}
	plan.Project = p.Name()

	if h.cache != nil {
		if data, err := json.Marshal(plan); err == nil {
			if err := h.cache.Set(ctx, key, data); err != nil {
				h.logger.Warn("plan cache write failed", "key", key, "error", err)
			}
		}
	}
	return plan, nil
}

func (h *GetActionPlanHandler) cached(ctx context.Context, key string) (*ActionPlanDTO, bool) {
	data, found, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Warn("plan cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var plan ActionPlanDTO
	if err := json.Unmarshal(data, &plan); err != nil {
		h.logger.Warn("discarding corrupt cached plan", "key", key, "error", err)
		return nil, false
	}
	return &plan, true
}
