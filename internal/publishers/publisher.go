package publishers

import (
	"fmt"
	"io"
)

// Target says where and how fragments are written.
type Target struct {
	Out  io.Writer // stdout publisher
	Path string    // file publisher
	// Wrap emits a complete "proxies:" document instead of bare items.
	Wrap bool
}

type Publisher interface {
	Publish(fragments []string, target Target) error
}

type Factory func() Publisher

var registry = make(map[string]Factory)

func Register(name string, factory Factory) {
	registry[name] = factory
}

func Get(name string) (Publisher, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("publisher plugin '%s' not found", name)
	}
	return factory(), nil
}
