package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <program-id>",
	Short: "Stop tracking a program",
	Long:  `Delete a program's stored snapshot. Rendered documents under the output directory are left in place.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.store.Delete(args[0]); err != nil {
		return err
	}
	log.Info().Str("program_id", args[0]).Msg("Removed program")
	return nil
}
