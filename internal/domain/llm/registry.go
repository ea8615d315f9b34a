package llm

import (
	"errors"
	"sort"
)

// ErrClientNotFound is returned when no client exists for a requested id.
var ErrClientNotFound = errors.New("client not found")

// Registry holds the configured clients keyed by their id.
type Registry struct {
	clients map[string]Client
}

// NewRegistry creates a registry from the given clients.
func NewRegistry(clients map[string]Client) *Registry {
	if clients == nil {
		clients = make(map[string]Client)
	}
	return &Registry{clients: clients}
}

// Get returns the client with the given id or ErrClientNotFound.
func (r *Registry) Get(id string) (Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	return client, nil
}

// IDs returns the configured client ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Info returns the info of every configured client keyed by id.
func (r *Registry) Info() map[string]ClientInfo {
	info := make(map[string]ClientInfo, len(r.clients))
	for id, client := range r.clients {
		info[id] = client.Info()
	}
	return info
}
