package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/proxsplit/internal/store"
)

var runsDataDir string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List persisted solve runs",
	RunE:  listRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsDataDir, "data", "./data", "Directory holding persisted runs")
	rootCmd.AddCommand(runsCmd)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return err
	}

	infos, err := st.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	// Newest first
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Timestamp.After(infos[j].Timestamp)
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tMETHOD\tDIM\tITERS\tOBJECTIVE\tCRITERION\tFINISHED")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%g\t%s\t%s\n",
			info.RunID,
			info.Method,
			info.Dim,
			info.NIter,
			info.FSol,
			info.Crit,
			info.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}
