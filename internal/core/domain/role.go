package domain

import "time"

// Role is a named bundle of access modules assignable to users.
type Role struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	AccessModules []string  `json:"accessModules"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasModule reports whether the role grants the given access module.
func (r *Role) HasModule(module string) bool {
	for _, m := range r.AccessModules {
		if m == module {
			return true
		}
	}
	return false
}

// HasDuplicates reports whether items contains any repeated entry.
func HasDuplicates(items []string) bool {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			return true
		}
		seen[item] = struct{}{}
	}
	return false
}
