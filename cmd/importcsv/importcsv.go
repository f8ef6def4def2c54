// Package importcsv implements the one-shot CSV import command.
package importcsv

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tphakala/plantarium-go/internal/conf"
	"github.com/tphakala/plantarium-go/internal/datastore"
	"github.com/tphakala/plantarium-go/internal/importer"
)

// Command creates the import command, which ingests a CSV file without
// starting the server.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Import plants and locations from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(settings, args[0])
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the import command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().BoolVar(&settings.Import.Strict, "strict", viper.GetBool("import.strict"), "Abort the whole batch on the first row failure")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}

// runImport parses the file and runs one import batch against the
// configured datastore.
func runImport(settings *conf.Settings, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	rows, err := importer.ParseCSV(file)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = ds.Close() }()

	summary, err := importer.New(ds, settings).Import(rows)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d records, created %d location nodes (batch %s)\n",
		summary.ImportedRecords, summary.NodesCreated, summary.BatchID)
	for _, rowErr := range summary.Errors {
		fmt.Printf("  skipped %s\n", rowErr.Error())
	}
	if len(summary.Errors) > 0 {
		return fmt.Errorf("%d rows failed", len(summary.Errors))
	}
	return nil
}
