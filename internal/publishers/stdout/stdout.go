package stdout

import (
	"fmt"
	"io"
	"os"

	"subclash/internal/publishers"
)

type Publisher struct{}

func (p *Publisher) Publish(fragments []string, target publishers.Target) error {
	var out io.Writer = os.Stdout
	if target.Out != nil {
		out = target.Out
	}
	_, err := fmt.Fprint(out, publishers.Payload(fragments, target.Wrap))
	return err
}

func init() {
	publishers.Register("stdout", func() publishers.Publisher { return &Publisher{} })
}
