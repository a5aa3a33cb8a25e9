package view

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sarchlab/procsched/scheduler"
)

const clearScreen = "\033[H\033[2J"

// TextPresenter prints snapshots as plain text tables.
type TextPresenter struct {
	w     io.Writer
	clear bool
	help  string
}

// NewTextPresenter creates a presenter that writes into w.
func NewTextPresenter(w io.Writer) *TextPresenter {
	return &TextPresenter{w: w}
}

// WithClearScreen makes every frame start on an empty terminal.
func (p *TextPresenter) WithClearScreen() *TextPresenter {
	p.clear = true
	return p
}

// Present prints one frame.
func (p *TextPresenter) Present(s scheduler.Snapshot) {
	if p.clear {
		fmt.Fprint(p.w, clearScreen)
	}

	p.header(s)
	p.running(s)
	p.queue("Ready", s.Ready, false)
	p.queue("Blocked", s.Blocked, true)
	p.finished(s.Finished)

	if p.help != "" {
		fmt.Fprintln(p.w, p.help)
	}
}

// Message prints a notice. The first message is kept as the help line of
// later frames.
func (p *TextPresenter) Message(msg string) {
	if p.help == "" {
		p.help = msg
	}

	fmt.Fprintf(p.w, "> %s\n", msg)
}

// Done prints the last frame followed by the PCB and the averages.
func (p *TextPresenter) Done(s scheduler.Snapshot) {
	p.Present(s)
	p.pcb(s)
	p.stats(s.Stats())
}

func (p *TextPresenter) header(s scheduler.Snapshot) {
	state := ""
	if s.Paused {
		state = "  PAUSED"
	}

	fmt.Fprintf(p.w, "Elapsed: %s  Pending: %d  In flight: %d/%d  "+
		"Finished: %d/%d%s\n",
		s.Elapsed, s.NumPending(), s.InFlight(), s.Window,
		len(s.Finished), s.Total, state)
}

func (p *TextPresenter) running(s scheduler.Snapshot) {
	fmt.Fprintln(p.w, "\nRunning")

	if s.Running == nil {
		fmt.Fprintln(p.w, "  (idle)")
		return
	}

	r := s.Running
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tOperation\tEstimated\tService\tLeft")
	fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n",
		r.ID, r.Operation, r.EstimatedTime, r.ServiceTime, r.TimeLeft)
	tw.Flush()
}

func (p *TextPresenter) queue(
	title string,
	views []scheduler.ProcessView,
	blocked bool,
) {
	fmt.Fprintf(p.w, "\n%s (%d)\n", title, len(views))

	if len(views) == 0 {
		return
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)

	if blocked {
		fmt.Fprintln(tw, "  ID\tBlocked\tLeft")
		for _, v := range views {
			fmt.Fprintf(tw, "  %d\t%s\t%s\n", v.ID, v.BlockedTime, v.BlockedLeft)
		}
	} else {
		fmt.Fprintln(tw, "  ID\tEstimated\tService\tLeft")
		for _, v := range views {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n",
				v.ID, v.EstimatedTime, v.ServiceTime, v.TimeLeft)
		}
	}

	tw.Flush()
}

func (p *TextPresenter) finished(views []scheduler.ProcessView) {
	fmt.Fprintf(p.w, "\nFinished (%d)\n", len(views))

	if len(views) == 0 {
		return
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tOperation\tResult\tStatus\tEstimated\tService")
	for _, v := range views {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Operation, v.Result, v.Status, v.EstimatedTime, v.ServiceTime)
	}
	tw.Flush()
}

func (p *TextPresenter) pcb(s scheduler.Snapshot) {
	fmt.Fprintln(p.w, "\nProcess control block")

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tState\tArrival\tTermination\tTurnaround\t"+
		"Waiting\tService\tLeft\tResult")

	for _, v := range s.PCB() {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.State, stamp(v.ArrivalTime), stamp(v.TerminationTime),
			stamp(v.TurnaroundTime), stamp(v.WaitingTime),
			v.ServiceTime, v.TimeLeft, orDash(v.Result))
	}

	tw.Flush()
}

func (p *TextPresenter) stats(st scheduler.Stats) {
	fmt.Fprintf(p.w, "\nFinished %d (%d succeeded, %d failed)\n",
		st.Finished, st.Succeeded, st.Failed)

	if st.Finished == 0 {
		return
	}

	fmt.Fprintf(p.w, "Average turnaround %s, waiting %s, service %s\n",
		st.AverageTurnaround, st.AverageWaiting, st.AverageService)
}
