package lock_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SameepSkillup/clinic-api/pkg/lock"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := lock.NewKeyedMutex()

	const workers = 32
	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			err := km.WithLock(context.Background(), "doctor:2025-03-10", func(context.Context) error {
				counter++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := lock.NewKeyedMutex()

	// Hold one key while taking another; independent keys must not block
	// each other.
	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = km.WithLock(context.Background(), "a", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	done := make(chan struct{})
	go func() {
		_ = km.WithLock(context.Background(), "b", func(context.Context) error { return nil })
		close(done)
	}()
	<-done
	close(release)
}

func TestKeyedMutexPropagatesError(t *testing.T) {
	km := lock.NewKeyedMutex()

	want := context.DeadlineExceeded
	err := km.WithLock(context.Background(), "k", func(context.Context) error { return want })
	require.ErrorIs(t, err, want)

	// The key must be reusable after a failed section.
	err = km.WithLock(context.Background(), "k", func(context.Context) error { return nil })
	assert.NoError(t, err)
}
