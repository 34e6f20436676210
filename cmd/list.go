package cmd

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yotaki/bancheck/internal/models"
	"github.com/yotaki/bancheck/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked programs",
	Long:  `Print every tracked program as "seq id title", most recently updated first.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	programs, err := loadSorted(a.store)
	if err != nil {
		return err
	}
	if len(programs) == 0 {
		log.Info().Msg("No programs found")
		return nil
	}

	out := cmd.OutOrStdout()
	for i, program := range programs {
		fmt.Fprintf(out, "%d %s %s\n", i+1, program.ID, program.Title)
	}
	return nil
}

// loadSorted returns all stored programs ordered by UpdatedAt
// descending. The list and view commands share this ordering so the
// sequence numbers line up.
func loadSorted(st *store.Store) ([]*models.Program, error) {
	programs, err := st.LoadAll()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(programs, func(i, j int) bool {
		return programs[i].UpdatedAt.After(programs[j].UpdatedAt)
	})
	return programs, nil
}
