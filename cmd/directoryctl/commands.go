package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/duynhne/directory-service/config"
	database "github.com/duynhne/directory-service/internal/core"
	"github.com/duynhne/directory-service/internal/core/domain"
	"github.com/duynhne/directory-service/internal/core/repository/memory"
	logicv1 "github.com/duynhne/directory-service/internal/logic/v1"
	"github.com/duynhne/directory-service/middleware"
)

// session is what a command needs to run the profile service.
type session struct {
	service *logicv1.ProfileService
	close   func()
}

// openSession loads configuration and builds a ProfileService. With dryRun
// the service runs against an empty in-memory store.
func openSession(cmd *cobra.Command, dryRun bool) (*session, error) {
	cfg := config.Load()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	cfg.Logging.Format = "console"

	logger, err := middleware.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if dryRun {
		repo := memory.NewProfileRepository(cfg.Listing.UniqueEmailIndex)
		return &session{
			service: logicv1.NewProfileService(repo, cfg.Listing, logger),
			close:   func() { _ = logger.Sync() },
		}, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := database.Open(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &session{
		service: logicv1.NewProfileService(store.Profiles, cfg.Listing, logger),
		close: func() {
			_ = store.Close(context.Background())
			_ = logger.Sync()
		},
	}, nil
}

func newImportCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import profiles from a CSV file",
		Long: `Runs the bulk upload pipeline on a CSV file and prints the report.
Rows are processed in file order; a rejected row does not stop the import.
With --dry-run the rows are validated against an empty in-memory store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := logicv1.ParseCSV(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			s, err := openSession(cmd, dryRun)
			if err != nil {
				return err
			}
			defer s.close()

			report, importErr := s.service.ImportProfiles(cmd.Context(), rows)
			if report != nil {
				if err := printReport(cmd, len(rows), report); err != nil {
					return err
				}
			}
			return importErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate against an in-memory store without writing")
	return cmd
}

func printReport(cmd *cobra.Command, count int, report *domain.ImportReport) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Count int `json:"count"`
		*domain.ImportReport
	}{count, report})
}

func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Write the CSV upload template to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(logicv1.TemplateCSV())
			return err
		},
	}
}

func newWorkTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "work-types",
		Short: "List the distinct work tags in the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.close()

			types, err := s.service.WorkTypes(cmd.Context())
			if err != nil {
				return err
			}
			if len(types) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(types, "\n"))
			}
			return nil
		},
	}
}
