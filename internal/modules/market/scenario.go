package market

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/aristath/flatbook/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadScenario reads market tables from a YAML file. Tables the file leaves
// out fall back to the defaults; the result is validated like New.
func LoadScenario(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	d, err := ParseScenario(raw)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return d, nil
}

// scenarioDoc mirrors Tables but keeps costs raw so a partial costs block
// only overrides the keys it names.
type scenarioDoc struct {
	Months             []string                   `yaml:"months"`
	MidlandPrice       Table                      `yaml:"midland_price"`
	HoustonPrice       Table                      `yaml:"houston_price"`
	SourMidland        Table                      `yaml:"sour_differential_midland"`
	SourHouston        Table                      `yaml:"sour_differential_houston"`
	ForecastAdjustment Table                      `yaml:"forecast_adjustment"`
	TradingDays        map[string]int             `yaml:"trading_days"`
	DailyCapacity      map[domain.Product]float64 `yaml:"daily_capacity"`
	Costs              yaml.Node                  `yaml:"costs"`
}

// ParseScenario decodes a YAML scenario document.
func ParseScenario(raw []byte) (*Data, error) {
	var doc scenarioDoc
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}

	def := DefaultTables()
	t := Tables{
		Months:             doc.Months,
		MidlandPrice:       doc.MidlandPrice,
		HoustonPrice:       doc.HoustonPrice,
		SourMidland:        doc.SourMidland,
		SourHouston:        doc.SourHouston,
		ForecastAdjustment: doc.ForecastAdjustment,
		TradingDays:        doc.TradingDays,
		DailyCapacity:      doc.DailyCapacity,
	}
	if len(t.Months) == 0 {
		t.Months = def.Months
	}
	if t.MidlandPrice == nil {
		t.MidlandPrice = def.MidlandPrice
	}
	if t.HoustonPrice == nil {
		t.HoustonPrice = def.HoustonPrice
	}
	if t.SourMidland == nil {
		t.SourMidland = def.SourMidland
	}
	if t.SourHouston == nil {
		t.SourHouston = def.SourHouston
	}
	if t.ForecastAdjustment == nil {
		t.ForecastAdjustment = def.ForecastAdjustment
	}
	if t.TradingDays == nil {
		t.TradingDays = def.TradingDays
	}
	if t.DailyCapacity == nil {
		t.DailyCapacity = def.DailyCapacity
	}

	t.Costs = def.Costs
	if doc.Costs.Kind != 0 {
		if err := doc.Costs.Decode(&t.Costs); err != nil {
			return nil, fmt.Errorf("failed to decode costs: %w", err)
		}
	}

	return New(t)
}

// WriteScenario writes the data as a YAML scenario document.
func WriteScenario(w io.Writer, d *Data) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d.Tables()); err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}
	return enc.Close()
}
