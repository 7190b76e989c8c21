package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the index schema",
	Long:  `Validate the Solr schema against the fields solrag requires, or create the missing ones.`,
}

var schemaCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the index schema",
	RunE:  runSchemaCheck,
}

var schemaSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create missing schema fields",
	RunE:  runSchemaSetup,
}

func init() {
	schemaCmd.AddCommand(schemaCheckCmd)
	schemaCmd.AddCommand(schemaSetupCmd)
	rootCmd.AddCommand(schemaCmd)
}

func runSchemaCheck(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	missing, err := schemaService.Validate(context.Background())
	if err != nil {
		return fmt.Errorf("schema check failed: %w", err)
	}

	if len(missing) == 0 {
		cmd.Println("Schema is complete.")
		return nil
	}

	cmd.Printf("Missing fields (%d):\n", len(missing))
	for _, name := range missing {
		cmd.Printf("  %s\n", name)
	}
	return errors.New("schema is incomplete, run 'solrag schema setup'")
}

func runSchemaSetup(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	if err := schemaService.Setup(context.Background()); err != nil {
		return fmt.Errorf("schema setup failed: %w", err)
	}

	cmd.Println("Schema is ready.")
	return nil
}
