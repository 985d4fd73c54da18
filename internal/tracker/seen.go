// Package tracker помнит, по каким монетам уже запускался сценарий ответа.
//
// Запись в наборе означает «отправка начата», а не «отправка удалась»:
// упавшие монеты не повторяются, чтобы не постить дважды.
package tracker

import (
	"context"
	"sync"
)

// SeenSet — набор ID на время жизни процесса.
type SeenSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewSeenSet() *SeenSet {
	return &SeenSet{ids: make(map[string]struct{})}
}

// IsNewAndMark атомарно проверяет и добавляет id. true — id встретился впервые.
func (s *SeenSet) IsNewAndMark(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false, nil
	}
	s.ids[id] = struct{}{}
	return true, nil
}

func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

func (s *SeenSet) Close() error { return nil }
