package remote

import (
	"context"
	"maps"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Collection. It can be switched offline to exercise
// fallback paths.
type Memory struct {
	mu      sync.RWMutex
	docs    map[string]map[string]any
	order   []string
	offline bool
}

// NewMemory creates an empty in-memory collection.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string]any)}
}

// SetOffline makes every subsequent call fail with ErrUnavailable until it is
// switched back.
func (m *Memory) SetOffline(offline bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offline = offline
}

// Len returns the number of stored documents.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *Memory) Add(ctx context.Context, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return "", ErrUnavailable
	}

	id := autoID()
	m.docs[id] = maps.Clone(data)
	m.order = append(m.order, id)
	return id, nil
}

func (m *Memory) All(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.offline {
		return nil, ErrUnavailable
	}

	docs := make([]Document, 0, len(m.order))
	for _, id := range m.order {
		docs = append(docs, Document{ID: id, Data: maps.Clone(m.docs[id])})
	}
	return docs, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return ErrUnavailable
	}

	if _, ok := m.docs[id]; !ok {
		return nil
	}
	delete(m.docs, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// autoID mimics the 20 character identifiers Firestore assigns.
func autoID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}
