package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yotaki/bancheck/internal/export"
	"github.com/yotaki/bancheck/internal/models"
	"github.com/yotaki/bancheck/internal/updater"
)

var (
	updateOutput  string
	updateRecords string
)

var updateCmd = &cobra.Command{
	Use:   "update [program-id]",
	Short: "Re-fetch programs and report actionable changes",
	Long: `Update one program, or every tracked program when no id is given.
Detected changes are written as a download URL list (and optionally as
a JSON record batch); a snapshot is only persisted when its diff is
non-empty. No changes is a successful no-op.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVarP(&updateOutput, "output", "o", "download_urls.txt", "download list filename")
	updateCmd.Flags().StringVar(&updateRecords, "json", "", "also write a JSON record batch to this path")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	u := updater.New(a.store)

	if len(args) == 1 {
		return updateSingle(cmd, a, u, args[0])
	}
	return updateEverything(cmd, a, u)
}

func updateSingle(cmd *cobra.Command, a *app, u *updater.Updater, programID string) error {
	log.Info().Str("program_id", programID).Msg("Updating program")

	changes, err := u.UpdateOne(cmd.Context(), programID)
	if err != nil {
		return err
	}
	if changes == nil {
		return &models.ProgramNotFoundError{ProgramID: programID}
	}
	if changes.Empty() {
		log.Info().Msg("No changes detected")
		return nil
	}

	program, err := a.store.Find(programID)
	if err != nil {
		return err
	}
	if _, err := export.NewMarkdown(a.cfg.Storage.OutputDir).Save(program); err != nil {
		return err
	}

	update := export.ProgramChanges{Program: program, Changes: *changes}
	listPath, err := export.NewDownloadList(a.cfg.Storage.OutputDir).Generate(program, *changes, updateOutput)
	if err != nil {
		return err
	}

	log.Info().
		Int("new_episodes", len(changes.NewEpisodes)).
		Int("premium_to_free", len(changes.PremiumToFree)).
		Msg("Changes detected")
	log.Info().Str("file", listPath).Msg("Wrote download list")

	return writeRecordBatch([]export.ProgramChanges{update})
}

func updateEverything(cmd *cobra.Command, a *app, u *updater.Updater) error {
	log.Info().Msg("Updating all programs")

	report, err := u.UpdateAll(cmd.Context())
	if err != nil {
		return err
	}
	if len(report.Failed) > 0 {
		log.Warn().Int("failed", len(report.Failed)).Msg("Some programs were skipped; see errors above")
	}
	if len(report.Changed) == 0 {
		log.Info().Msg("No changes detected in any program")
		return nil
	}

	markdown := export.NewMarkdown(a.cfg.Storage.OutputDir)
	var updates []export.ProgramChanges
	for id, changes := range report.Changed {
		program, err := a.store.Find(id)
		if err != nil {
			return err
		}
		if _, err := markdown.Save(program); err != nil {
			return err
		}
		updates = append(updates, export.ProgramChanges{Program: program, Changes: changes})

		log.Info().
			Str("title", program.Title).
			Int("new_episodes", len(changes.NewEpisodes)).
			Int("premium_to_free", len(changes.PremiumToFree)).
			Msg("Changes detected")
	}

	listPath, err := export.NewDownloadList(a.cfg.Storage.OutputDir).GenerateCombined(updates, updateOutput)
	if err != nil {
		return err
	}
	if listPath != "" {
		log.Info().Str("file", listPath).Msg("Wrote download list")
	}

	log.Info().Int("updated", len(report.Changed)).Msg("Update cycle finished")
	return writeRecordBatch(updates)
}

func writeRecordBatch(updates []export.ProgramChanges) error {
	if updateRecords == "" {
		return nil
	}
	batch := export.BuildBatch(updates)
	if err := export.WriteBatch(batch, updateRecords); err != nil {
		return err
	}
	log.Info().Str("file", updateRecords).Int("entries", batch.TotalCount).Msg("Wrote record batch")
	return nil
}
