package store

import "github.com/google/uuid"

type widget struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Owner string   `json:"owner"`
	Cost  float64  `json:"cost"`
	Tags  []string `json:"tags"`
	Place *place   `json:"place,omitempty"`
}

type place struct {
	State string `json:"state"`
}

func (w widget) DocID() string { return w.ID }

func (w widget) UniqueFields() map[string]string {
	return map[string]string{"name": w.Name}
}

func newID() string {
	return uuid.NewString()
}
