package main

import (
	"github.com/spf13/cobra"

	"github.com/chrisbmr/pcbroute/board"
)

var rrrRandomize bool

var rrrCmd = &cobra.Command{
	Use:   "rrr <board.json> [connection-ids...]",
	Short: "Rip-up-and-reroute a set of connections",
	Long: `rrr loads a board JSON document and runs the rip-up-and-reroute
agent over the named connections (spec.md §4.5). With no connection
ids given, every connection on the board is ripped up and rerouted
together. Exits 4 if the agent cannot find a fully-routed solution
within its iteration budget, 5 on --timeout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBoard(args[0])
		if err != nil {
			return err
		}

		ids := args[1:]
		if len(ids) == 0 {
			for _, c := range b.Connections() {
				ids = append(ids, c.ID)
			}
		}

		ctx, cancel := routeContext()
		defer cancel()

		opts := board.RunRRROptions{RandomizeOrder: rrrRandomize}
		if _, err := b.RunRRR(ctx, ids, opts); err != nil {
			return err
		}
		return writeResult(b)
	},
}

func init() {
	rrrCmd.Flags().BoolVar(&rrrRandomize, "randomize", false, "randomize rip-up order each iteration")
}
