// Package registry maps workflow action types to the factories that build them.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/hirelane/hirelane/pkg/models"
)

// ErrUnknownActionType is returned for an action type no factory is registered for.
var ErrUnknownActionType = errors.New("unknown action type")

// Action performs exactly one side effect for one workflow execution.
// The returned map is stored in the execution result.
type Action interface {
	Execute(ctx context.Context, wctx models.WorkflowContext) (map[string]any, error)
}

// ActionFactory builds an Action from the raw config stored on the workflow.
type ActionFactory interface {
	ID() models.ActionType
	Create(config json.RawMessage) (Action, error)
	Schema() map[string]any
}

type Registry struct {
	logger *slog.Logger

	mu              sync.RWMutex
	actionFactories map[models.ActionType]ActionFactory
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:          log.With("module", "registry"),
		actionFactories: make(map[models.ActionType]ActionFactory),
	}
}

func (r *Registry) RegisterAction(actionFactory ActionFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.actionFactories[actionFactory.ID()] = actionFactory
	r.logger.Debug("registered action", "action_type", actionFactory.ID())
}

func (r *Registry) factory(actionType models.ActionType) (ActionFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.actionFactories[actionType]

	return factory, ok
}

// CreateAction decodes config for actionType. A missing factory yields ErrUnknownActionType.
func (r *Registry) CreateAction(actionType models.ActionType, config json.RawMessage) (Action, error) {
	factory, ok := r.factory(actionType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionType, actionType)
	}

	action, err := factory.Create(config)
	if err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", actionType, err)
	}

	return action, nil
}

// ActionTypes returns the registered action types in lexical order.
func (r *Registry) ActionTypes() []models.ActionType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]models.ActionType, 0, len(r.actionFactories))
	for actionType := range r.actionFactories {
		types = append(types, actionType)
	}

	slices.Sort(types)

	return types
}

func (r *Registry) Schema(actionType models.ActionType) (map[string]any, bool) {
	factory, ok := r.factory(actionType)
	if !ok {
		return nil, false
	}

	return factory.Schema(), true
}
