package runner

import (
	"bufio"
	"context"
	"io"
	"sync"
)

type lineResult struct {
	text string
	err  error
}

// linePump reads lines in the background so that reads can be abandoned
// when a context is cancelled.
type linePump struct {
	reader *bufio.Reader
	lines  chan lineResult
	once   sync.Once
}

func newLinePump(r io.Reader) *linePump {
	return &linePump{reader: bufio.NewReader(r)}
}

func (p *linePump) start() {
	p.once.Do(func() {
		p.lines = make(chan lineResult)
		go p.run()
	})
}

func (p *linePump) run() {
	defer close(p.lines)
	for {
		text, err := p.reader.ReadString('\n')
		if text != "" {
			p.lines <- lineResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				p.lines <- lineResult{err: err}
			}
			return
		}
	}
}

// next returns the next raw line, io.EOF at the end of the stream or the
// context error.
func (p *linePump) next(ctx context.Context) (string, error) {
	p.start()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}
