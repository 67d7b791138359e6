package notification

import (
	_ "embed"
	"fmt"

	"github.com/hirelane/hirelane/pkg/models"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type defaultSetting struct {
	InApp    bool          `yaml:"in_app"`
	Email    bool          `yaml:"email"`
	Audience []models.Role `yaml:"audience"`
	Title    string        `yaml:"title"`
	Body     string        `yaml:"body"`
}

// Defaults maps an event code to the setting used when an organization configured none.
type Defaults map[string]models.NotificationSetting

// ParseDefaults decodes a YAML document of event code keyed settings.
func ParseDefaults(data []byte) (Defaults, error) {
	var raw map[string]defaultSetting

	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notification defaults: %w", err)
	}

	defaults := make(Defaults, len(raw))

	for code, setting := range raw {
		for _, role := range setting.Audience {
			if !role.Valid() {
				return nil, fmt.Errorf("notification default %q: unknown audience role %q", code, role)
			}
		}

		defaults[code] = models.NotificationSetting{
			EventCode:     code,
			InAppEnabled:  setting.InApp,
			EmailEnabled:  setting.Email,
			Audience:      setting.Audience,
			TitleTemplate: setting.Title,
			BodyTemplate:  setting.Body,
		}
	}

	return defaults, nil
}

// BuiltinDefaults returns the defaults compiled into the binary.
func BuiltinDefaults() Defaults {
	defaults, err := ParseDefaults(defaultsYAML)
	if err != nil {
		panic(err)
	}

	return defaults
}
