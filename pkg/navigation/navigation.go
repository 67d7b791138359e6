// Package navigation resolves the role based navigation tree and filters it
// by the caller's permissions and roles.
package navigation

import (
	"slices"

	"github.com/hirelane/hirelane/pkg/models"
)

// LocalizedText is a bilingual label.
type LocalizedText struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

// Item is one navigation link. When Permissions is set the caller must hold all of them.
type Item struct {
	ID          string              `json:"id"`
	Title       LocalizedText       `json:"title"`
	Href        string              `json:"href"`
	Icon        string              `json:"icon"`
	Permissions []models.Permission `json:"permissions,omitempty"`
}

// Section groups items. When Roles is set the caller must hold at least one of them.
type Section struct {
	ID    string        `json:"id"`
	Title LocalizedText `json:"title"`
	Roles []models.Role `json:"roles,omitempty"`
	Items []Item        `json:"items"`
}

// ForRole returns the static navigation tree of role. The returned slice is
// shared configuration and must not be modified. Unknown roles and candidates
// get an empty tree.
func ForRole(role models.Role) []Section {
	sections, ok := byRole[role]
	if !ok {
		return []Section{}
	}

	return sections
}

// FilterByPermissions keeps the sections whose role restriction the caller
// satisfies and, inside them, the items whose permissions the caller holds.
// Sections left without items are dropped. Order is preserved and the input
// is not modified.
func FilterByPermissions(sections []Section, permissions []models.Permission, roles []models.Role) []Section {
	filtered := make([]Section, 0, len(sections))

	for _, section := range sections {
		if len(section.Roles) > 0 && !holdsAny(roles, section.Roles) {
			continue
		}

		items := make([]Item, 0, len(section.Items))

		for _, item := range section.Items {
			if holdsAll(permissions, item.Permissions) {
				items = append(items, item)
			}
		}

		if len(items) == 0 {
			continue
		}

		section.Items = items
		filtered = append(filtered, section)
	}

	return filtered
}

func holdsAny(granted, required []models.Role) bool {
	for _, role := range required {
		if slices.Contains(granted, role) {
			return true
		}
	}

	return false
}

func holdsAll(granted, required []models.Permission) bool {
	for _, permission := range required {
		if !slices.Contains(granted, permission) {
			return false
		}
	}

	return true
}
