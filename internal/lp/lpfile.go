package lp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// maxLineLen keeps written lines inside the CPLEX LP reader limit.
const maxLineLen = 510

// WriteLP writes the problem in CPLEX LP format so it can be handed to an
// external solver (CBC, HiGHS, CPLEX) for cross-checking.
func (p *Problem) WriteLP(w io.Writer) error {
	bw := bufio.NewWriter(w)
	lw := &lineWriter{w: bw}

	fmt.Fprintf(bw, "\\* %s *\\\n", p.Name)
	if p.Sense == Minimize {
		bw.WriteString("Minimize\n")
	} else {
		bw.WriteString("Maximize\n")
	}
	lw.start(" obj:")
	p.writeExpr(lw, p.objective)
	lw.end()

	bw.WriteString("Subject To\n")
	for _, c := range p.constraints {
		lw.start(" " + c.Name + ":")
		p.writeExpr(lw, c.LHS)
		lw.word(c.Relation.String())
		lw.word(formatNum(c.RHS))
		lw.end()
	}

	bw.WriteString("Bounds\n")
	for _, v := range p.vars {
		if v.Kind == Binary {
			continue
		}
		switch {
		case math.IsInf(v.Upper, 1) && v.Lower == 0:
			// default bound
		case math.IsInf(v.Upper, 1):
			fmt.Fprintf(bw, " %s >= %s\n", v.Name, formatNum(v.Lower))
		default:
			fmt.Fprintf(bw, " %s <= %s <= %s\n", formatNum(v.Lower), v.Name, formatNum(v.Upper))
		}
	}

	if p.NumBinaries() > 0 {
		bw.WriteString("Binaries\n")
		for _, v := range p.vars {
			if v.Kind == Binary {
				fmt.Fprintf(bw, " %s\n", v.Name)
			}
		}
	}
	bw.WriteString("End\n")

	if lw.err != nil {
		return lw.err
	}
	return bw.Flush()
}

func (p *Problem) writeExpr(lw *lineWriter, e Expr) {
	if len(e) == 0 {
		lw.word("0")
		return
	}
	for i, t := range e {
		sign := "+"
		coef := t.Coef
		if coef < 0 {
			sign, coef = "-", -coef
		}
		if i == 0 && sign == "+" {
			lw.word(formatNum(coef) + " " + p.vars[t.Var].Name)
			continue
		}
		lw.word(sign + " " + formatNum(coef) + " " + p.vars[t.Var].Name)
	}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}

// lineWriter wraps long expressions over continuation lines.
type lineWriter struct {
	w   *bufio.Writer
	buf strings.Builder
	err error
}

func (l *lineWriter) start(head string) {
	l.buf.Reset()
	l.buf.WriteString(head)
}

func (l *lineWriter) word(s string) {
	if l.buf.Len()+1+len(s) > maxLineLen {
		l.flush()
		l.buf.WriteString("  ")
	}
	l.buf.WriteByte(' ')
	l.buf.WriteString(s)
}

func (l *lineWriter) end() {
	l.flush()
}

func (l *lineWriter) flush() {
	if l.err != nil {
		return
	}
	l.buf.WriteByte('\n')
	_, l.err = l.w.WriteString(l.buf.String())
	l.buf.Reset()
}
