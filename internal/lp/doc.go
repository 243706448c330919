// Package lp is a solver-neutral model of linear and mixed-binary programs.
//
// A Problem owns its variables, constraints and objective. Formulation code
// builds a Problem; an Engine consumes it and returns a Solution. Nothing in
// this package knows how the numbers are produced.
package lp
