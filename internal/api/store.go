package api

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/ecoff/pkg/ecoff"
)

// Object is a decoded upload kept in memory until deleted.
type Object struct {
	ID        string
	Name      string
	Size      int64
	CreatedAt time.Time
	File      *ecoff.File
}

// ObjectStore holds decoded objects keyed by id. Objects are immutable once
// stored; the store only guards the map.
type ObjectStore struct {
	mu      sync.Mutex
	objects map[string]*Object
}

func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		objects: make(map[string]*Object),
	}
}

func (s *ObjectStore) Put(name string, size int64, f *ecoff.File, now time.Time) *Object {
	obj := &Object{
		ID:        newObjectID(),
		Name:      name,
		Size:      size,
		CreatedAt: now,
		File:      f,
	}
	s.mu.Lock()
	s.objects[obj.ID] = obj
	s.mu.Unlock()
	return obj
}

func (s *ObjectStore) Get(id string) (*Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	return obj, ok
}

func (s *ObjectStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		return false
	}
	delete(s.objects, id)
	return true
}

// List returns every object, oldest first.
func (s *ObjectStore) List() []*Object {
	s.mu.Lock()
	out := make([]*Object, 0, len(s.objects))
	for _, obj := range s.objects {
		out = append(out, obj)
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b *Object) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func (s *ObjectStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func newObjectID() string {
	return "obj_" + uuid.NewString()
}
