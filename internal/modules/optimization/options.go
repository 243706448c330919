package optimization

import (
	"fmt"
	"strings"
)

// Policy names a preset formulation.
type Policy string

const (
	// PolicySymmetricLP is the continuous model with symmetric profits.
	PolicySymmetricLP Policy = "symmetric-lp"
	// PolicyAsymmetricMIP adds binary trade selection and asymmetric profits.
	PolicyAsymmetricMIP Policy = "asymmetric-mip"
)

// Policies lists the presets.
func Policies() []Policy {
	return []Policy{PolicySymmetricLP, PolicyAsymmetricMIP}
}

// ParsePolicy parses a policy name, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicySymmetricLP:
		return PolicySymmetricLP, nil
	case PolicyAsymmetricMIP:
		return PolicyAsymmetricMIP, nil
	}
	return "", fmt.Errorf("unknown policy %q (want %s or %s)", s, PolicySymmetricLP, PolicyAsymmetricMIP)
}

// Options control the formulation. The profit rule and binary selection
// are independent; the policies are presets over them.
type Options struct {
	Rule      ProfitRule
	Selectors bool
}

// Options returns the preset for a policy.
func (p Policy) Options() Options {
	if p == PolicyAsymmetricMIP {
		return Options{Rule: AsymmetricProfit, Selectors: true}
	}
	return Options{Rule: SymmetricProfit}
}

// Name labels the options for logs and problem names.
func (o Options) Name() string {
	switch {
	case o.Rule == SymmetricProfit && !o.Selectors:
		return string(PolicySymmetricLP)
	case o.Rule == AsymmetricProfit && o.Selectors:
		return string(PolicyAsymmetricMIP)
	case o.Selectors:
		return o.Rule.String() + "-mip"
	default:
		return o.Rule.String() + "-lp"
	}
}
