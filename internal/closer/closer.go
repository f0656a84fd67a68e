package closer

import (
	"errors"
	"sync"
)

var globalCloser = New()

func Add(f ...func() error) {
	globalCloser.Add(f...)
}

func CloseAll() error {
	return globalCloser.CloseAll()
}

// Closer runs cleanup functions once, newest first.
type Closer struct {
	mu    sync.Mutex
	once  sync.Once
	funcs []func() error
}

func New() *Closer {
	return &Closer{}
}

func (c *Closer) Add(f ...func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, f...)
}

// CloseAll calls every function even when some fail and joins their errors.
func (c *Closer) CloseAll() error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		funcs := c.funcs
		c.funcs = nil
		c.mu.Unlock()

		errs := make([]error, 0, len(funcs))
		for i := len(funcs) - 1; i >= 0; i-- {
			if e := funcs[i](); e != nil {
				errs = append(errs, e)
			}
		}
		err = errors.Join(errs...)
	})
	return err
}
