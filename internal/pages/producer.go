package pages

import (
	"context"

	"github.com/google/safehtml"
)

// Producer yields the body markup of a single page. Implementations may be
// static or computed and may block on I/O; they must honour ctx.
type Producer interface {
	Produce(ctx context.Context) (safehtml.HTML, error)
}

// ProducerFunc adapts ordinary functions to Producer.
type ProducerFunc func(context.Context) (safehtml.HTML, error)

// Produce calls f(ctx).
func (f ProducerFunc) Produce(ctx context.Context) (safehtml.HTML, error) {
	return f(ctx)
}

// Static returns a producer that always yields body.
func Static(body safehtml.HTML) Producer {
	return staticProducer{body: body}
}

type staticProducer struct {
	body safehtml.HTML
}

func (p staticProducer) Produce(context.Context) (safehtml.HTML, error) {
	return p.body, nil
}
