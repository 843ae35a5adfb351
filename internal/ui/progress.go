package ui

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// IsTerminal reports whether f is a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Progress renders a progress bar for a single download. It draws nothing
// unless enabled, so callers can pass Update unconditionally.
type Progress struct {
	mu       sync.Mutex
	w        io.Writer
	name     string
	enabled  bool
	progress *mpb.Progress
	bar      *mpb.Bar
}

// NewProgress creates a Progress writing to w. The bar is created lazily on
// the first Update.
func NewProgress(w io.Writer, name string, enabled bool) *Progress {
	return &Progress{
		w:       w,
		name:    name,
		enabled: enabled,
	}
}

// Update reports downloaded bytes out of total (-1 when unknown).
// It has the signature of download.ProgressCallback.
func (p *Progress) Update(downloaded, total int64) {
	if !p.enabled {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		p.progress = mpb.New(mpb.WithOutput(p.w), mpb.WithWidth(40))
		p.bar = p.progress.AddBar(0,
			mpb.BarFillerClearOnComplete(),
			mpb.PrependDecorators(
				decor.Name("  "+NewStyle().Path.Sprint(p.name)+" ", decor.WC{W: 30, C: decor.DindentRight}),
			),
			mpb.AppendDecorators(
				decor.CountersKibiByte("% .1f / % .1f"),
				decor.OnComplete(decor.Name(""), " done"),
			),
		)
	}
	if total > 0 {
		p.bar.SetTotal(total, false)
	}
	p.bar.SetCurrent(downloaded)
}

// Finish completes or aborts the bar and waits for it to be rendered.
func (p *Progress) Finish(ok bool) {
	p.mu.Lock()
	bar, progress := p.bar, p.progress
	p.mu.Unlock()

	if bar == nil {
		return
	}
	if ok {
		bar.SetTotal(bar.Current(), true)
	} else {
		bar.Abort(true)
	}
	progress.Wait()
}
