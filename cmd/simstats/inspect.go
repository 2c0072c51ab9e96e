package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hyp3rd/simstats"
	"github.com/hyp3rd/simstats/pkg/ingest"
)

var (
	inspectFormat string
	inspectIndex  string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <dump>",
	Short: "List the stats of one dump with their variant and owner count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(inspectIndex)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		format := inspectFormat
		if format == "" {
			format = formatFromExt(args[0])
		}

		_, svc, err := newService(logger)
		if err != nil {
			return err
		}

		catalog, err := svc.Ingest(cmd.Context(), simstats.Dump{Index: index, Format: format, Data: data})
		if err != nil {
			return err
		}

		return printCatalog(os.Stdout, catalog)
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "", "dump format: json|msgpack|cbor|yaml (default from the file extension)")
	inspectCmd.Flags().StringVar(&inspectIndex, "index", "", "run index as key=value pairs, e.g. cpu=o3,workload=bfs")
}

func printCatalog(w io.Writer, catalog *ingest.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "STAT\tVARIANT\tOWNERS")

	for _, name := range catalog.Names() {
		s, _ := catalog.Get(name)
		fmt.Fprintf(tw, "%s\t%s\t%d\n", name, s.Variant(), s.Len())
	}

	return tw.Flush()
}
