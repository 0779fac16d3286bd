package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCancelRegistryInvokeOnce(t *testing.T) {
	r := NewCancelRegistry()
	calls := 0
	r.Register("lesson-1", func() { calls++ })

	assert.True(t, r.Invoke("lesson-1"))
	assert.False(t, r.Invoke("lesson-1"))
	assert.Equal(t, 1, calls)
}

func TestCancelRegistryRegisterIsNoopWhenActive(t *testing.T) {
	r := NewCancelRegistry()
	first, second := 0, 0
	r.Register("lesson-1", func() { first++ })
	r.Register("lesson-1", func() { second++ })

	r.Invoke("lesson-1")
	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second)
}

func TestCancelRegistryRemoveDiscardsWithoutCalling(t *testing.T) {
	r := NewCancelRegistry()
	calls := 0
	r.Register("lesson-1", func() { calls++ })
	r.Remove("lesson-1")

	assert.False(t, r.Invoke("lesson-1"))
	assert.Equal(t, 0, calls)
}

func TestCancelRegistryConcurrentInvoke(t *testing.T) {
	r := NewCancelRegistry()
	calls := 0
	var mu sync.Mutex
	r.Register("lesson-1", func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Invoke("lesson-1")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
}
