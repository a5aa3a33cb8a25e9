package view

import (
	"github.com/sarchlab/procsched/process"
	"github.com/sarchlab/procsched/sim"
)

func stamp(t sim.VTimeInSec) string {
	if t == process.Unset {
		return "-"
	}

	return t.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
