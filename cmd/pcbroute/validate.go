package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrisbmr/pcbroute/board"
)

const validateInvariantTolerance = 1e-6

var validateCmd = &cobra.Command{
	Use:   "validate <board.json>",
	Short: "Check a board's current state against the routed-connection invariant",
	Long: `validate loads a board JSON document and checks every connection's
current state against the data model's routed-connection invariant
(a routed connection has exactly one track whose endpoints match its
source and target pins) without routing anything. Exits 3 on the
first violation found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBoard(args[0])
		if err != nil {
			return err
		}
		for _, c := range b.Connections() {
			if !c.ValidateInvariant(validateInvariantTolerance) {
				return &board.InvariantError{Reason: fmt.Sprintf("connection %s: routed track endpoints do not match its source/target pins", c.ID)}
			}
		}
		return writeResult(b)
	},
}
