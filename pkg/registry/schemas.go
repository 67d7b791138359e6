package registry

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidActionConfig is returned when an action config does not match its factory schema.
var ErrInvalidActionConfig = errors.New("action config does not match schema")

// ValidateConfig checks config against the JSON schema of actionType.
func (r *Registry) ValidateConfig(actionType models.ActionType, config []byte) error {
	schema, ok := r.Schema(actionType)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownActionType, actionType)
	}

	trimmed := bytes.TrimSpace(config)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewBytesLoader(trimmed),
	)
	if err != nil {
		return fmt.Errorf("failed to validate %s config: %w", actionType, err)
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		messages = append(messages, desc.String())
	}

	return fmt.Errorf("%w: %s: %s", ErrInvalidActionConfig, actionType, strings.Join(messages, "; "))
}
