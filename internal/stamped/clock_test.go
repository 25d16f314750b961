package stamped

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomicClock(t *testing.T) {
	c := NewClockAt(5)
	assert.Equal(t, int64(6), c.Next())

	c.AdvanceTo(3)
	assert.Equal(t, int64(7), c.Next(), "never moves backwards")

	c.AdvanceTo(20)
	assert.Equal(t, int64(21), c.Next())
}

func TestAtomicClock_Concurrent(t *testing.T) {
	c := NewClockAt(0)
	seen := make(chan int64, 100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- c.Next()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]bool)
	for tick := range seen {
		unique[tick] = true
	}
	assert.Len(t, unique, 100)
}
