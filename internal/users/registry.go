package users

import "strings"

// User is one member of the externally supplied user set. There is no
// signup or identity management in this service; the set is fixed at
// startup from configuration.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Registry resolves user ids against the fixed set.
type Registry struct {
	byID map[string]User
}

func NewRegistry(list []User) *Registry {
	byID := make(map[string]User, len(list))
	for _, u := range list {
		if u.ID != "" {
			byID[u.ID] = u
		}
	}
	return &Registry{byID: byID}
}

// ParseList builds a registry from a comma-separated "id[:name]" string,
// the format used in configuration.
func ParseList(s string) *Registry {
	var list []User
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, name, _ := strings.Cut(entry, ":")
		list = append(list, User{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)})
	}
	return NewRegistry(list)
}

func (r *Registry) Known(id string) bool {
	_, ok := r.byID[id]
	return ok
}

func (r *Registry) Get(id string) (User, bool) {
	u, ok := r.byID[id]
	return u, ok
}

// All returns the user set in unspecified order.
func (r *Registry) All() []User {
	out := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out
}
