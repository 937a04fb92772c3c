package main

import (
	"io"
	"sync"

	"github.com/japaniel/wordlesolver/pkg/wordle"
	"github.com/schollz/progressbar/v3"
)

// progress adapts a progress bar to wordle.Observer. The bar is created on the
// first report, once the total is known.
type progress struct {
	mu   sync.Mutex
	w    io.Writer
	desc string
	bar  *progressbar.ProgressBar
}

func newProgress(w io.Writer, desc string, quiet bool) *progress {
	if quiet {
		return nil
	}
	return &progress{w: w, desc: desc}
}

// Observer returns the reporting callback, nil when progress is disabled.
func (p *progress) Observer() wordle.Observer {
	if p == nil {
		return nil
	}
	return p.observe
}

func (p *progress) observe(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil || p.bar.GetMax() != total {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription(p.desc),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set(done)
}

// Done finishes the current bar.
func (p *progress) Done() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}
