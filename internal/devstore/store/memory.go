package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
	"github.com/stepski011/DevStore/internal/pkg/pkguid"
)

// InMemoryCollection keeps documents as JSON in process memory. Documents are
// copied on the way in and out so callers never share state with the store.
type InMemoryCollection[T Document] struct {
	mu     sync.RWMutex
	docs   map[string][]byte
	order  []string
	unique map[string]map[string]string // field -> value -> id
}

func NewInMemoryCollection[T Document]() *InMemoryCollection[T] {
	return &InMemoryCollection[T]{
		docs:   make(map[string][]byte),
		unique: make(map[string]map[string]string),
	}
}

func (s *InMemoryCollection[T]) Insert(ctx context.Context, doc *T) error {
	id := (*doc).DocID()
	if !pkguid.Valid(id) {
		return pkgerror.ErrIdentifierFormat
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[id]; exists {
		return pkgerror.ErrDuplicateValue
	}
	if err := s.checkUnique(id, (*doc).UniqueFields()); err != nil {
		return err
	}

	s.docs[id] = raw
	s.order = append(s.order, id)
	s.index(id, (*doc).UniqueFields())

	return nil
}

func (s *InMemoryCollection[T]) Update(ctx context.Context, doc *T) error {
	id := (*doc).DocID()
	if !pkguid.Valid(id) {
		return pkgerror.ErrIdentifierFormat
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[id]; !exists {
		return pkgerror.ErrNotFound
	}
	if err := s.checkUnique(id, (*doc).UniqueFields()); err != nil {
		return err
	}

	s.unindex(id)
	s.docs[id] = raw
	s.index(id, (*doc).UniqueFields())

	return nil
}

func (s *InMemoryCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	if !pkguid.Valid(id) {
		return nil, pkgerror.ErrIdentifierFormat
	}

	s.mu.RLock()
	raw, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return decode[T](raw)
}

func (s *InMemoryCollection[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	q.Offset, q.Limit = 0, 1
	items, _, err := s.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerror.ErrNotFound
	}
	return items[0], nil
}

func (s *InMemoryCollection[T]) Find(ctx context.Context, q Query) ([]*T, int, error) {
	if err := q.Validate(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	matched := make([]map[string]any, 0, len(s.order))
	for _, id := range s.order {
		var m map[string]any
		if err := json.Unmarshal(s.docs[id], &m); err != nil {
			s.mu.RUnlock()
			return nil, 0, fmt.Errorf("decode document %s: %w", id, err)
		}
		if q.matches(m) {
			matched = append(matched, m)
		}
	}
	s.mu.RUnlock()

	q.sortDocs(matched)

	total := len(matched)
	start, end := q.page(total)

	items := make([]*T, 0, end-start)
	for _, m := range matched[start:end] {
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, 0, fmt.Errorf("encode document: %w", err)
		}
		doc, err := decode[T](raw)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, doc)
	}

	return items, total, nil
}

func (s *InMemoryCollection[T]) Delete(ctx context.Context, id string) error {
	if !pkguid.Valid(id) {
		return pkgerror.ErrIdentifierFormat
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return pkgerror.ErrNotFound
	}
	s.remove(id)

	return nil
}

func (s *InMemoryCollection[T]) DeleteMany(ctx context.Context, q Query) (int, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for _, id := range s.order {
		var m map[string]any
		if err := json.Unmarshal(s.docs[id], &m); err != nil {
			return 0, fmt.Errorf("decode document %s: %w", id, err)
		}
		if q.matches(m) {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		s.remove(id)
	}

	return len(ids), nil
}

func (s *InMemoryCollection[T]) remove(id string) {
	s.unindex(id)
	delete(s.docs, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *InMemoryCollection[T]) checkUnique(id string, fields map[string]string) error {
	for field, value := range fields {
		if value == "" {
			continue
		}
		if owner, taken := s.unique[field][value]; taken && owner != id {
			return fmt.Errorf("%s %q: %w", field, value, pkgerror.ErrDuplicateValue)
		}
	}
	return nil
}

func (s *InMemoryCollection[T]) index(id string, fields map[string]string) {
	for field, value := range fields {
		if value == "" {
			continue
		}
		if s.unique[field] == nil {
			s.unique[field] = make(map[string]string)
		}
		s.unique[field][value] = id
	}
}

func (s *InMemoryCollection[T]) unindex(id string) {
	for _, values := range s.unique {
		for value, owner := range values {
			if owner == id {
				delete(values, value)
			}
		}
	}
}

func decode[T Document](raw []byte) (*T, error) {
	doc := new(T)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
