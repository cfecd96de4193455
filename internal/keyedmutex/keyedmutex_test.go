package keyedmutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := New()

	const workers = 50
	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			km.Lock("market-a")
			defer km.Unlock("market-a")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := New()

	km.Lock("market-a")
	done := make(chan struct{})
	go func() {
		// a different key must not block behind market-a
		km.Lock("market-b")
		km.Unlock("market-b")
		close(done)
	}()
	<-done
	km.Unlock("market-a")
}

func TestKeyedMutex_ReusesLockPerKey(t *testing.T) {
	km := New()
	assert.Same(t, km.get("x"), km.get("x"))
	assert.NotSame(t, km.get("x"), km.get("y"))
}
