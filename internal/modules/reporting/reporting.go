// Package reporting writes solved plans: the console trade ledger, the
// all-routes file ledger and a msgpack export.
package reporting

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/aristath/flatbook/internal/domain"
	"github.com/aristath/flatbook/internal/modules/planning"
	"github.com/dustin/go-humanize"
)

// Sink kinds accepted by NewSink.
const (
	KindConsole = "console"
	KindFile    = "file"
	KindMsgpack = "msgpack"
)

// Kinds returns every sink kind.
func Kinds() []string {
	return []string{KindConsole, KindFile, KindMsgpack}
}

// Sink writes a plan somewhere.
type Sink interface {
	Write(plan *planning.Plan) error
}

// NewSink returns the sink for kind. Console output goes to w; the file
// and msgpack sinks write to path.
func NewSink(kind string, w io.Writer, path string) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindConsole:
		return NewConsoleSink(w), nil
	case KindFile:
		return NewFileSink(path), nil
	case KindMsgpack:
		return NewMsgpackSink(path), nil
	}
	return nil, fmt.Errorf("unknown sink %q (want one of %s)", kind, strings.Join(Kinds(), ", "))
}

// ledger accumulates the first write error so report bodies stay linear.
type ledger struct {
	w   *bufio.Writer
	err error
}

func newLedger(w io.Writer) *ledger {
	return &ledger{w: bufio.NewWriter(w)}
}

func (l *ledger) printf(format string, args ...any) {
	if l.err != nil {
		return
	}
	_, l.err = fmt.Fprintf(l.w, format, args...)
}

func (l *ledger) flush() error {
	if l.err != nil {
		return l.err
	}
	return l.w.Flush()
}

func (l *ledger) header(plan *planning.Plan) {
	l.printf("Status: %s\n", plan.Status)
	if plan.Optimal() {
		l.printf("Total Maximum Profit: $%s\n\n", Money(plan.Objective))
	}
}

func (l *ledger) capacities(plan *planning.Plan) {
	l.printf("Monthly Capacities:\n")
	var last domain.Product
	for _, c := range plan.Capacities {
		if c.Product != last {
			l.printf("  %s:\n", c.Product)
			last = c.Product
		}
		l.printf("    %s: %s barrels\n", c.Month, Barrels(c.Barrels))
	}
}

func (l *ledger) summary(product domain.Product, t planning.Totals) {
	l.printf("%s Summary: Total Long = %s barrels, Total Short = %s barrels\n",
		product, Barrels(t.Long), Barrels(t.Short))
}

// Money formats dollars with thousands separators and two decimals.
func Money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// Barrels formats a volume as a thousands-separated whole number.
func Barrels(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// PerBarrel formats a per-barrel profit to four decimals.
func PerBarrel(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// ConsoleSink prints the trade ledger: every side with volume, grouped by
// product, followed by totals and the capacity table.
type ConsoleSink struct {
	w io.Writer
}

// NewConsoleSink writes to w, typically os.Stdout.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) Write(plan *planning.Plan) error {
	l := newLedger(s.w)
	l.header(plan)
	if !plan.Optimal() {
		l.printf("No trades: the solve did not reach an optimal plan.\n\n")
		l.capacities(plan)
		return l.flush()
	}

	for _, product := range domain.Products() {
		l.printf("Trade allocations for %s:\n", product)
		for _, t := range plan.TradesFor(product) {
			l.printf("  %s\n", tradeLine(t))
		}
		l.summary(product, plan.Totals[product])
		l.printf("\n")
	}
	l.capacities(plan)
	return l.flush()
}

func tradeLine(t planning.Trade) string {
	r := t.Route
	if t.Side == domain.Short {
		return fmt.Sprintf("SHORT: Sell %s in %s at %s and Cover in %s via %s: %s barrels; Profit per barrel: $%s",
			r.Product, r.BuyMonth, r.BuyLocation, r.SellMonth, r.SellOption, Barrels(t.Volume), PerBarrel(t.Profit))
	}
	return fmt.Sprintf("LONG: Buy %s in %s at %s and Sell in %s via %s: %s barrels; Profit per barrel: $%s",
		r.Product, r.BuyMonth, r.BuyLocation, r.SellMonth, r.SellOption, Barrels(t.Volume), PerBarrel(t.Profit))
}

const routeSeparator = "-------------------------------------------------"

// FileSink writes the all-routes ledger: one block per enumerated route,
// traded or not.
type FileSink struct {
	path string
}

// NewFileSink writes to path, replacing any existing file.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path returns the output file.
func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Write(plan *planning.Plan) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	werr := WriteRouteLedger(f, plan)
	if err := f.Close(); err != nil && werr == nil {
		werr = fmt.Errorf("failed to close report: %w", err)
	}
	return werr
}

// WriteRouteLedger renders the all-routes ledger to w.
func WriteRouteLedger(w io.Writer, plan *planning.Plan) error {
	l := newLedger(w)
	l.header(plan)
	if !plan.Optimal() {
		l.capacities(plan)
		return l.flush()
	}

	l.printf("All Route Details:\n")
	for _, rec := range plan.Records {
		r := rec.Route
		l.printf("Product: %s, Route: Buy in %s at %s -> Sell in %s via %s\n",
			r.Product, r.BuyMonth, r.BuyLocation, r.SellMonth, r.SellOption)
		l.printf("  Profit per barrel: %s\n", PerBarrel(rec.Coefficients.Long))
		l.printf("  Long volume: %s barrels\n", Barrels(rec.LongVolume))
		l.printf("  Short volume: %s barrels\n", Barrels(rec.ShortVolume))
		l.printf("%s\n", routeSeparator)
	}
	for _, product := range domain.Products() {
		l.printf("\n")
		l.summary(product, plan.Totals[product])
	}
	l.printf("\n")
	l.capacities(plan)
	return l.flush()
}
