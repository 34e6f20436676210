package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yotaki/bancheck/internal/export"
	"github.com/yotaki/bancheck/internal/models"
)

var viewCmd = &cobra.Command{
	Use:   "view <program-id-or-seq>",
	Short: "Show a program's rendered document",
	Long: `Print the stored markdown document for a program. The argument is
either a program id or a sequence number from the list command.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	programID := args[0]
	if seq, err := strconv.Atoi(programID); err == nil {
		programs, err := loadSorted(a.store)
		if err != nil {
			return err
		}
		if seq < 1 || seq > len(programs) {
			return fmt.Errorf("invalid sequence number: %d", seq)
		}
		programID = programs[seq-1].ID
	}

	path := export.NewMarkdown(a.cfg.Storage.OutputDir).ProgramPath(programID)
	content, err := os.ReadFile(path)
	if err != nil {
		return &models.ProgramNotFoundError{ProgramID: programID}
	}

	fmt.Fprint(cmd.OutOrStdout(), string(content))
	return nil
}
