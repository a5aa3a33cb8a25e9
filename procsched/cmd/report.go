package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sarchlab/procsched/datarecording"
	"github.com/sarchlab/procsched/scheduler"
	"github.com/spf13/cobra"
)

var flagReportRun string

var reportCmd = &cobra.Command{
	Use:   "report <db>",
	Short: "Print the finished processes of a recorded run.",
	Long: "Report reads a SQLite file written by `procsched run --record` " +
		"and prints the run properties, the finished log and the averages.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := datarecording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		return report(cmd.Context(), cmd.OutOrStdout(), reader, flagReportRun)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&flagReportRun, "run", "",
		"only report the run with this ID")
}

func report(
	ctx context.Context,
	w io.Writer,
	reader datarecording.DataReader,
	runID string,
) error {
	reader.MapTable(datarecording.ExecTableName, datarecording.ExecInfo{})
	reader.MapTable(scheduler.FinishedTableName, scheduler.FinishedEntry{})

	tables, err := reader.ListTables(ctx)
	if err != nil {
		return err
	}

	if contains(tables, datarecording.ExecTableName) {
		err = reportExecInfo(ctx, w, reader)
		if err != nil {
			return err
		}
	}

	if !contains(tables, scheduler.FinishedTableName) {
		return fmt.Errorf("no %s table in the database",
			scheduler.FinishedTableName)
	}

	params := datarecording.QueryParams{OrderBy: "RunID, TerminationTime, ID"}
	if runID != "" {
		params.Where = "RunID = ?"
		params.Args = []any{runID}
	}

	rows, total, err := reader.Query(ctx, scheduler.FinishedTableName, params)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Run\tID\tOperation\tResult\tStatus\tArrival\t"+
		"Termination\tTurnaround\tWaiting\tService")

	var turnaround, waiting, service float64

	for _, row := range rows {
		e := row.(*scheduler.FinishedEntry)
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			e.RunID, e.ID, e.Operation, e.Result, e.Status, e.ArrivalTime,
			e.TerminationTime, e.TurnaroundTime, e.WaitingTime, e.ServiceTime)

		turnaround += e.TurnaroundTime
		waiting += e.WaitingTime
		service += e.ServiceTime
	}

	err = tw.Flush()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d finished processes\n", total)

	if total > 0 {
		n := float64(total)
		fmt.Fprintf(w, "Average turnaround %.2f, waiting %.2f, service %.2f\n",
			turnaround/n, waiting/n, service/n)
	}

	return nil
}

func reportExecInfo(
	ctx context.Context,
	w io.Writer,
	reader datarecording.DataReader,
) error {
	rows, _, err := reader.Query(ctx, datarecording.ExecTableName,
		datarecording.QueryParams{})
	if err != nil {
		return err
	}

	for _, row := range rows {
		info := row.(*datarecording.ExecInfo)
		fmt.Fprintf(w, "%s: %s\n", info.Property, info.Value)
	}

	fmt.Fprintln(w)

	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}

	return false
}
