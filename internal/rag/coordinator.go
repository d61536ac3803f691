package rag

import (
	"fmt"
	"sync"
)

// BuildCoordinator 构建协调器
// 保证同一索引键上最多只有一个构建在执行；不同键的构建完全并行。
// 碰撞时立即失败而不是排队，由调用方稍后重试。
type BuildCoordinator struct {
	mu     sync.Mutex
	active map[IndexKey]struct{}
}

// NewBuildCoordinator 创建构建协调器
func NewBuildCoordinator() *BuildCoordinator {
	return &BuildCoordinator{active: make(map[IndexKey]struct{})}
}

// WithLock 持有 key 的排他锁执行 fn，完成或失败后释放
// key 已被占用时立即返回 KindBuildInProgress。
func (c *BuildCoordinator) WithLock(key IndexKey, fn func() error) error {
	if err := c.tryAcquire(key); err != nil {
		return err
	}
	defer c.release(key)

	return fn()
}

// tryAcquire 尝试占用 key，失败时不阻塞
func (c *BuildCoordinator) tryAcquire(key IndexKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, held := c.active[key]; held {
		return NewError(KindBuildInProgress,
			fmt.Sprintf("集合 '%s' 正在构建索引，请稍后重试", key.Collection))
	}
	c.active[key] = struct{}{}
	return nil
}

// release 释放 key
func (c *BuildCoordinator) release(key IndexKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.active, key)
}
