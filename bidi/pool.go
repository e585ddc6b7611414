package bidi

import (
	"context"
	"fmt"

	pool "github.com/jolestar/go-commons-pool"
)

// Resolvers for isolates are short-lived objects, created for every isolate
// on every line. To avoid re-allocating their buffers we pool them.
type resolverPool struct {
	opool *pool.ObjectPool
	ctx   context.Context
}

var globalResolverPool *resolverPool

func init() {
	globalResolverPool = &resolverPool{}
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			return NewResolver(), nil
		})
	globalResolverPool.ctx = context.Background()
	config := pool.NewDefaultPoolConfig()
	config.MaxTotal = -1 // infinity
	config.BlockWhenExhausted = false
	globalResolverPool.opool = pool.NewObjectPool(globalResolverPool.ctx, factory, config)
}

// BorrowResolver returns a resolver from a pool of resolvers, configured
// with opts. Clients return it with ReturnResolver. ctx may be nil.
func BorrowResolver(ctx context.Context, opts ...Option) (*Resolver, error) {
	if ctx == nil {
		ctx = globalResolverPool.ctx
	}
	o, err := globalResolverPool.opool.BorrowObject(ctx)
	if err != nil {
		return nil, fmt.Errorf("bidi: cannot borrow resolver: %w", err)
	}
	r := o.(*Resolver)
	r.opts = applyOptions(opts)
	return r, nil
}

// ReturnResolver clears a resolver and puts it back into the pool. It
// reports ErrResidualIsolatedRuns if r still holds unresolved isolated runs;
// r is returned to the pool nevertheless.
func ReturnResolver(ctx context.Context, r *Resolver) error {
	if ctx == nil {
		ctx = globalResolverPool.ctx
	}
	released := r.Release()
	if err := globalResolverPool.opool.ReturnObject(ctx, r); err != nil {
		return fmt.Errorf("bidi: cannot return resolver: %w", err)
	}
	return released
}
