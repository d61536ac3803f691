package rag

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCoordinator_WithLock(t *testing.T) {
	key := IndexKey{TenantID: "tenant-1", Collection: "notes"}

	t.Run("同一键并发执行时只有一个成功", func(t *testing.T) {
		c := NewBuildCoordinator()
		started := make(chan struct{})
		proceed := make(chan struct{})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.WithLock(key, func() error {
				close(started)
				<-proceed
				return nil
			})
		}()

		<-started
		err := c.WithLock(key, func() error {
			t.Error("碰撞的构建不应该执行")
			return nil
		})
		require.Error(t, err)
		assert.True(t, IsKind(err, KindBuildInProgress))

		close(proceed)
		wg.Wait()
	})

	t.Run("执行结束后锁被释放", func(t *testing.T) {
		c := NewBuildCoordinator()

		require.NoError(t, c.WithLock(key, func() error { return nil }))
		require.NoError(t, c.WithLock(key, func() error { return nil }))
	})

	t.Run("执行失败后锁同样被释放", func(t *testing.T) {
		c := NewBuildCoordinator()
		sentinel := errors.New("构建失败")

		err := c.WithLock(key, func() error { return sentinel })
		assert.ErrorIs(t, err, sentinel)

		require.NoError(t, c.WithLock(key, func() error { return nil }))
	})

	t.Run("不同键互不阻塞", func(t *testing.T) {
		c := NewBuildCoordinator()
		other := IndexKey{TenantID: "tenant-2", Collection: "notes"}
		holding := make(chan struct{})
		proceed := make(chan struct{})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.WithLock(key, func() error {
				close(holding)
				<-proceed
				return nil
			})
		}()

		<-holding
		require.NoError(t, c.WithLock(other, func() error { return nil }))

		close(proceed)
		wg.Wait()
	})
}
