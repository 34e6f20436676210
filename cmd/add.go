package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yotaki/bancheck/internal/export"
	"github.com/yotaki/bancheck/internal/providers"
	"github.com/yotaki/bancheck/internal/util"
)

var addCmd = &cobra.Command{
	Use:   "add <program-id-or-url>",
	Short: "Register a program and store its first snapshot",
	Long: `Register a program by id (e.g. 26-249) or page URL. The platform is
detected from the input, the program's metadata is fetched, and the
snapshot is stored for later update cycles.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	provider, programID, err := providers.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := util.ValidateProgramID(programID); err != nil {
		return err
	}

	log.Info().
		Str("program_id", programID).
		Str("platform", string(provider.GetInfo().ID)).
		Msg("Fetching program info")

	program, err := provider.FetchProgram(cmd.Context(), programID)
	if err != nil {
		return err
	}

	log.Info().Str("title", program.Title).Int("episodes", program.TotalEpisodes).Msg("Fetched program")

	if err := a.store.Save(program); err != nil {
		return err
	}
	log.Info().Str("file", a.cfg.Storage.ProgramsFile).Msg("Saved snapshot")

	mdPath, err := export.NewMarkdown(a.cfg.Storage.OutputDir).Save(program)
	if err != nil {
		return err
	}
	log.Info().Str("file", mdPath).Msg("Wrote program markdown")
	return nil
}
