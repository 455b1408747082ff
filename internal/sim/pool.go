package sim

import (
	"sync"

	"github.com/san-kum/watersim/internal/physics"
)

// SetPool recycles particle sets of one size.
type SetPool struct {
	pool sync.Pool
	size int
}

func NewSetPool(size int) *SetPool {
	return &SetPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make(physics.Set, size)
			},
		},
	}
}

func (p *SetPool) Get() physics.Set {
	return p.pool.Get().(physics.Set)
}

func (p *SetPool) Put(s physics.Set) {
	if len(s) == p.size {
		clear(s)
		p.pool.Put(s)
	}
}

func (p *SetPool) GetAndCopy(src physics.Set) physics.Set {
	dst := p.Get()
	copy(dst, src)
	return dst
}
