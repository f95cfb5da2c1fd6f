package dynamo

import "sync"

// BatchPool recycles scratch batches of one shape. Batches come back with
// whatever the previous user left in them.
type BatchPool struct {
	pool sync.Pool
	p, d int
}

func NewBatchPool(p, d int) *BatchPool {
	return &BatchPool{
		p: p,
		d: d,
		pool: sync.Pool{
			New: func() interface{} {
				b := NewBatch(p, d)
				return &b
			},
		},
	}
}

func (bp *BatchPool) Get() *Batch {
	return bp.pool.Get().(*Batch)
}

// Put returns b to the pool; batches of another shape are dropped.
func (bp *BatchPool) Put(b *Batch) {
	if b != nil && b.P == bp.p && b.D == bp.d && len(b.Data) == bp.p*bp.d {
		bp.pool.Put(b)
	}
}

// ScratchPool hands out batches of any shape, one BatchPool per shape.
type ScratchPool struct {
	mu    sync.Mutex
	pools map[[2]int]*BatchPool
}

func (s *ScratchPool) Get(p, d int) *Batch {
	return s.poolFor(p, d).Get()
}

func (s *ScratchPool) Put(b *Batch) {
	s.poolFor(b.P, b.D).Put(b)
}

func (s *ScratchPool) poolFor(p, d int) *BatchPool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pools == nil {
		s.pools = make(map[[2]int]*BatchPool)
	}
	key := [2]int{p, d}
	bp, ok := s.pools[key]
	if !ok {
		bp = NewBatchPool(p, d)
		s.pools[key] = bp
	}
	return bp
}
