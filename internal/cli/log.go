package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Inspect per-profile sync logs",
}

var logShowCmd = &cobra.Command{
	Use:   "show <profile>",
	Short: "Show the sync history of a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogShow,
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(logShowCmd)
}

func runLogShow(cmd *cobra.Command, args []string) error {
	manager, err := newManager(cmd)
	if err != nil {
		return err
	}

	log := manager.LoadLog(args[0])
	if log == nil {
		return fmt.Errorf("no sync log recorded for profile %q", args[0])
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tRESULT\tSCHEDULED\tTARGETS\tERROR")
	for _, r := range log.Results() {
		fmt.Fprintf(w, "%s\t%d\t%t\t%d\t%s\n",
			r.Time.Format("2006-01-02 15:04:05"), r.MajorCode, r.Scheduled, len(r.Targets), r.Error)
	}
	return w.Flush()
}
