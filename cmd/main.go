package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"clinic-console/cmd/bootstrap"
	"clinic-console/internal/delivery/dto"
	"clinic-console/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-console",
		Short: "Administrative console for the clinic API",
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(submitCmd())
	rootCmd.AddCommand(listCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP console",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}

			// Initialize application with all dependencies
			app, err := bootstrap.New(cfg)
			if err != nil {
				logrus.Fatalf("Failed to initialize application: %v", err)
			}

			// Run the application
			app.Run()
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the submission log schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			if !cfg.DB.Enabled() {
				return fmt.Errorf("DB_HOST is required for migrations")
			}
			return database.MigrateUp(cfg.DB)
		},
	})

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			cfg, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			if !cfg.DB.Enabled() {
				return fmt.Errorf("DB_HOST is required for migrations")
			}
			return database.MigrateDown(cfg.DB, steps)
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(downCmd)

	return cmd
}

func submitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <kind>",
		Short: "Fill and submit one form (patient, doctor, appointment, prescription, receipt)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, _ := cmd.Flags().GetStringArray("set")
			selects, _ := cmd.Flags().GetStringArray("select")

			cfg, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			logrus.SetOutput(os.Stderr)

			app := bootstrap.NewLocal(cfg)
			ctx := context.Background()

			opened, err := app.Forms.Open(ctx, args[0])
			if err != nil {
				return err
			}
			formID := opened.Form.ID
			defer app.Forms.Close(ctx, formID)

			for _, s := range selects {
				field, raw, ok := strings.Cut(s, "=")
				if !ok {
					return fmt.Errorf("invalid --select %q, expected field=id", s)
				}
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid --select %q: %w", s, err)
				}
				if _, err := app.Forms.Select(ctx, formID, &dto.SelectRequest{Field: field, ID: id}); err != nil {
					return err
				}
			}

			values := make(map[string]string, len(sets))
			for _, s := range sets {
				field, value, ok := strings.Cut(s, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q, expected field=value", s)
				}
				values[field] = value
			}
			if len(values) > 0 {
				if _, err := app.Forms.UpdateFields(ctx, formID, &dto.UpdateFieldsRequest{Values: values}); err != nil {
					return err
				}
			}

			resp, err := app.Forms.Submit(ctx, formID)
			if resp != nil && resp.Notification != nil {
				fmt.Fprintln(cmd.OutOrStdout(), resp.Notification.Message)
				for field, msg := range resp.Form.FieldErrors {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", field, msg)
				}
			}
			return err
		},
	}
	cmd.Flags().StringArray("set", nil, "Field value as field=value (repeatable)")
	cmd.Flags().StringArray("select", nil, "Reference selection as field=id (repeatable)")
	return cmd
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print a reference collection",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "patients",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := localApp()
			if err != nil {
				return err
			}
			patients, err := app.ClinicAPI.ListPatients(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNOMBRE\tDNI\tTELEFONO\tEDAD")
			for _, p := range patients {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", p.ID, p.FullName, p.DNI, p.Phone, p.Age)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "doctors",
		Short: "List doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := localApp()
			if err != nil {
				return err
			}
			doctors, err := app.ClinicAPI.ListDoctors(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNOMBRE\tESPECIALIDAD\tTELEFONO\tDISPONIBILIDAD")
			for _, d := range doctors {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", d.ID, d.FullName, d.Specialty, d.Phone, d.Availability)
			}
			return w.Flush()
		},
	})

	return cmd
}

func localApp() (*bootstrap.App, error) {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return nil, err
	}
	logrus.SetOutput(os.Stderr)
	return bootstrap.NewLocal(cfg), nil
}
