package keymutex_test

import (
	"sync"
	"testing"

	"relay/internal/pkg/keymutex"

	"github.com/stretchr/testify/assert"
)

func TestKeyMutex_SerializesSameKey(t *testing.T) {
	km := keymutex.New()

	const iterations = 1000
	counter := 0

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				km.Lock("parcel-1")
				counter++
				km.Unlock("parcel-1")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 4*iterations, counter)
}

func TestKeyMutex_IndependentKeys(t *testing.T) {
	km := keymutex.New()

	km.Lock("parcel-1")
	defer km.Unlock("parcel-1")

	done := make(chan struct{})
	go func() {
		km.Lock("parcel-2")
		km.Unlock("parcel-2")
		close(done)
	}()

	// A different key must not block behind parcel-1.
	<-done
}

func TestKeyMutex_ReusesLockPerKey(t *testing.T) {
	km := keymutex.New()

	km.Lock("parcel-1")
	locked := make(chan struct{})
	go func() {
		km.Lock("parcel-1")
		km.Unlock("parcel-1")
		close(locked)
	}()

	select {
	case <-locked:
		t.Fatal("second Lock on the same key did not block")
	default:
	}

	km.Unlock("parcel-1")
	<-locked
}
