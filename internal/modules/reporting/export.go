package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/aristath/flatbook/internal/domain"
	"github.com/aristath/flatbook/internal/modules/planning"
	"github.com/vmihailenco/msgpack/v5"
)

// Export is the msgpack document written by MsgpackSink.
type Export struct {
	RunID        string                  `msgpack:"run_id"`
	Policy       string                  `msgpack:"policy"`
	Status       string                  `msgpack:"status"`
	Objective    float64                 `msgpack:"objective"`
	Nodes        int                     `msgpack:"nodes"`
	SolveSeconds float64                 `msgpack:"solve_seconds"`
	Months       []string                `msgpack:"months"`
	Routes       []ExportRoute           `msgpack:"routes,omitempty"`
	Totals       map[string]ExportTotals `msgpack:"totals,omitempty"`
	Capacities   []ExportCapacity        `msgpack:"capacities"`
}

// ExportRoute is one route record.
type ExportRoute struct {
	Key           string  `msgpack:"key"`
	Product       string  `msgpack:"product"`
	BuyMonth      string  `msgpack:"buy_month"`
	SellMonth     string  `msgpack:"sell_month"`
	BuyLocation   string  `msgpack:"buy_location"`
	SellOption    string  `msgpack:"sell_option"`
	LongProfit    float64 `msgpack:"long_profit"`
	ShortProfit   float64 `msgpack:"short_profit"`
	LongVolume    float64 `msgpack:"long_volume"`
	ShortVolume   float64 `msgpack:"short_volume"`
	LongSelected  bool    `msgpack:"long_selected,omitempty"`
	ShortSelected bool    `msgpack:"short_selected,omitempty"`
}

// ExportTotals are per-product volume sums.
type ExportTotals struct {
	Long  float64 `msgpack:"long"`
	Short float64 `msgpack:"short"`
}

// ExportCapacity is one capacity table cell.
type ExportCapacity struct {
	Product string  `msgpack:"product"`
	Month   string  `msgpack:"month"`
	Barrels float64 `msgpack:"barrels"`
}

// NewExport flattens a plan into its export document.
func NewExport(plan *planning.Plan) *Export {
	e := &Export{
		RunID:        plan.RunID,
		Policy:       plan.Policy,
		Status:       plan.Status.String(),
		Objective:    plan.Objective,
		Nodes:        plan.Nodes,
		SolveSeconds: plan.SolveTime.Seconds(),
		Months:       plan.Calendar.Names(),
	}
	for _, c := range plan.Capacities {
		e.Capacities = append(e.Capacities, ExportCapacity{
			Product: string(c.Product),
			Month:   c.Month.Name,
			Barrels: c.Barrels,
		})
	}
	if !plan.Optimal() {
		return e
	}

	e.Routes = make([]ExportRoute, 0, len(plan.Records))
	for _, rec := range plan.Records {
		r := rec.Route
		e.Routes = append(e.Routes, ExportRoute{
			Key:           r.Key(),
			Product:       string(r.Product),
			BuyMonth:      r.BuyMonth.Name,
			SellMonth:     r.SellMonth.Name,
			BuyLocation:   string(r.BuyLocation),
			SellOption:    string(r.SellOption),
			LongProfit:    rec.Coefficients.Long,
			ShortProfit:   rec.Coefficients.Short,
			LongVolume:    rec.LongVolume,
			ShortVolume:   rec.ShortVolume,
			LongSelected:  rec.LongSelected,
			ShortSelected: rec.ShortSelected,
		})
	}
	e.Totals = make(map[string]ExportTotals, len(plan.Totals))
	for _, product := range domain.Products() {
		t := plan.Totals[product]
		e.Totals[string(product)] = ExportTotals{Long: t.Long, Short: t.Short}
	}
	return e
}

// ReadExport decodes an export document.
func ReadExport(r io.Reader) (*Export, error) {
	var e Export
	if err := msgpack.NewDecoder(r).Decode(&e); err != nil {
		return nil, fmt.Errorf("failed to decode plan export: %w", err)
	}
	return &e, nil
}

// MsgpackSink encodes the plan export to a file.
type MsgpackSink struct {
	path string
}

// NewMsgpackSink writes to path, replacing any existing file.
func NewMsgpackSink(path string) *MsgpackSink {
	return &MsgpackSink{path: path}
}

// Path returns the output file.
func (s *MsgpackSink) Path() string { return s.path }

func (s *MsgpackSink) Write(plan *planning.Plan) error {
	data, err := msgpack.Marshal(NewExport(plan))
	if err != nil {
		return fmt.Errorf("failed to encode plan export: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write plan export: %w", err)
	}
	return nil
}
