package vm

import (
	"encoding/binary"
	"sync"
	"time"
)

const clockStorePropertyKey = "VM:RUNTIME:CLOCK:MONOTONIC"

type Clock interface {
	Now() time.Time
}

// StoreClock never goes backwards, even across restarts with a skewed
// system clock, because the last observed time is persisted.
type StoreClock struct {
	sync.Mutex
	store Store
	now   time.Time
}

func NewClock(store Store) (*StoreClock, error) {
	bs, err := store.ReadProperty([]byte(clockStorePropertyKey))
	if err != nil {
		return nil, err
	}
	var ts time.Time
	if len(bs) == 8 {
		ts = time.Unix(0, int64(binary.BigEndian.Uint64(bs)))
	}
	if now := time.Now(); ts.Before(now) {
		ts = now
	}
	clock := new(StoreClock)
	clock.store = store
	clock.now = ts
	return clock, nil
}

func (c *StoreClock) Now() time.Time {
	c.Lock()
	defer c.Unlock()

	for {
		now := time.Now()
		if now.After(c.now) {
			c.now = now
			break
		}
		time.Sleep(time.Millisecond)
	}

	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(c.now.UnixNano()))
	for {
		err := c.store.WriteProperty([]byte(clockStorePropertyKey), val)
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	return c.now
}
