package observer

import "sync"

type entry[T any] struct {
	id uint64
	fn func(T)
}

// Subject 有序的发布订阅：Publish 同步调用所有订阅者，顺序即注册顺序
type Subject[T any] struct {
	mu      sync.RWMutex
	entries []entry[T]
	nextID  uint64
}

// Subscribe 注册订阅者并返回取消函数
func (s *Subject[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.entries = append(s.entries, entry[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			filtered := make([]entry[T], 0, len(s.entries))
			for _, e := range s.entries {
				if e.id != id {
					filtered = append(filtered, e)
				}
			}
			s.entries = filtered
		})
	}
}

// Publish 拷贝订阅列表后逐个调用，订阅者内部可以安全地取消订阅
func (s *Subject[T]) Publish(v T) {
	s.mu.RLock()
	copied := append([]entry[T](nil), s.entries...)
	s.mu.RUnlock()
	for _, e := range copied {
		e.fn(v)
	}
}

// Len 当前订阅者数量
func (s *Subject[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
