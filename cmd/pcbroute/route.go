package main

import (
	"github.com/spf13/cobra"

	"github.com/chrisbmr/pcbroute/board"
)

var routeCmd = &cobra.Command{
	Use:   "route <board.json> <connection-id>",
	Short: "Route a single connection with A*",
	Long: `route loads a board JSON document and runs a single A* search for
the named connection (spec.md §4.4, AStarConnect). On success the
connection's track is rasterized onto the grid and the resulting
board state is printed; a connection that cannot be routed within
the configured deadline or cost limits exits 4 (or 5 on timeout).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBoard(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := routeContext()
		defer cancel()

		ok, err := b.RouteConnection(ctx, args[1], nil)
		if err != nil {
			return err
		}
		if !ok {
			return board.ErrUnroutable
		}
		return writeResult(b)
	},
}
