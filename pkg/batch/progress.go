package batch

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"mercator-hq/vendorgate/pkg/validation"
)

// Progress observes a run. Start is called once before the first vendor,
// Vendor after each vendor with the number processed so far, and Finish
// once the run ends, including when it is cancelled.
type Progress interface {
	Start(total int)
	Vendor(done int, res VendorResult)
	Finish(summary *Summary)
}

// Tally counts vendor outcomes.
type Tally struct {
	Pass    int
	Warning int
	Fail    int
	Errors  int
}

// Add counts res.
func (t *Tally) Add(res VendorResult) {
	if res.Err != nil {
		t.Errors++
		return
	}
	switch res.SummaryStatus {
	case validation.StatusPass:
		t.Pass++
	case validation.StatusWarning:
		t.Warning++
	case validation.StatusFail:
		t.Fail++
	}
}

// String returns the tally in "PASS n  WARNING n  FAIL n  errors n" form.
func (t Tally) String() string {
	return fmt.Sprintf("PASS %d  WARNING %d  FAIL %d  errors %d", t.Pass, t.Warning, t.Fail, t.Errors)
}

// TextProgress renders a run as a single status line that is rewritten
// after every vendor:
//
//	[ 3/10] globex: FAIL  (PASS 2  WARNING 0  FAIL 1  errors 0)  4.2 vendors/s
type TextProgress struct {
	mu      sync.Mutex
	w       io.Writer
	now     func() time.Time
	total   int
	width   int
	started time.Time
	tally   Tally
}

// NewTextProgress returns a TextProgress writing to w, or to os.Stderr when
// w is nil.
func NewTextProgress(w io.Writer) *TextProgress {
	if w == nil {
		w = os.Stderr
	}
	return &TextProgress{w: w, now: time.Now}
}

// Start resets the tally and announces the vendor count.
func (p *TextProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.width = len(fmt.Sprint(total))
	p.tally = Tally{}
	p.started = p.now()
	fmt.Fprintf(p.w, "Validating %d vendor(s)\n", total)
}

// Vendor records res and redraws the status line.
func (p *TextProgress) Vendor(done int, res VendorResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tally.Add(res)

	outcome := string(res.SummaryStatus)
	if res.Err != nil {
		outcome = "ERROR"
	}
	rate := 0.0
	if elapsed := p.now().Sub(p.started).Seconds(); elapsed > 0 {
		rate = float64(done) / elapsed
	}

	// \x1b[K clears what is left of a longer previous line.
	fmt.Fprintf(p.w, "\r[%*d/%d] %s: %s  (%s)  %.1f vendors/s\x1b[K",
		p.width, done, p.total, res.VendorID, outcome, p.tally, rate)
}

// Finish ends the status line.
func (p *TextProgress) Finish(summary *Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total > 0 {
		fmt.Fprintln(p.w)
	}
}

// Tally returns the outcomes counted since Start.
func (p *TextProgress) Tally() Tally {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tally
}
