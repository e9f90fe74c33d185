package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/godilite/dealer-risk/internal/repository"
	"github.com/godilite/dealer-risk/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *CLI) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the configured database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, dialect, err := c.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := repository.Migrate(cmd.Context(), db, dialect)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", n)
			return nil
		},
	}
}

func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Load dealerships, customers and visits from a JSON file.",
		Long: `Load a JSON document of the form

  {"dealerships": [...], "customers": [...], "visits": [...]}

into the configured database in a single transaction. Pending migrations are
applied first. Records without an id get a generated one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var batch repository.Batch
			if err := json.Unmarshal(raw, &batch); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			engine, err := c.engine()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, dialect, err := c.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := repository.Migrate(ctx, db, dialect); err != nil {
				return err
			}
			repo := repository.NewRiskRepository(db,
				repository.WithDialect(dialect),
				repository.WithEngine(engine))
			if err := repo.Import(ctx, batch); err != nil {
				return err
			}

			c.logger.Info("import finished", zap.String("file", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d dealership(s), %d customer(s), %d visit(s)\n",
				len(batch.Dealerships), len(batch.Customers), len(batch.Visits))
			return nil
		},
	}
}

func (c *CLI) visitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "visit <visit-id>",
		Short: "Score a single stored visit.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(func(svc *service.RiskService) error {
				sv, err := svc.ScoreVisit(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if c.settings.Output == jsonOut {
					return writeJSON(cmd.OutOrStdout(), sv)
				}
				return writeVisit(cmd.OutOrStdout(), sv, c.writeOptions())
			})
		},
	}
}

func (c *CLI) customerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "customer <customer-id>",
		Short: "Aggregate a customer's visit history into one risk score.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := c.asOf()
			if err != nil {
				return err
			}
			return c.withService(func(svc *service.RiskService) error {
				cr, err := svc.GetCustomerRisk(cmd.Context(), args[0], asOf)
				if err != nil {
					return err
				}
				if c.settings.Output == jsonOut {
					return writeJSON(cmd.OutOrStdout(), cr)
				}
				return writeCustomer(cmd.OutOrStdout(), cr, c.writeOptions())
			})
		},
	}
}

func (c *CLI) dealershipCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dealership <dealership-id>",
		Short: "Roll up every customer of a dealership and list its worst visits.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := c.asOf()
			if err != nil {
				return err
			}
			return c.withService(func(svc *service.RiskService) error {
				r, err := svc.GetDealershipRisk(cmd.Context(), args[0], asOf)
				if err != nil {
					return err
				}
				if c.settings.Output == jsonOut {
					return writeJSON(cmd.OutOrStdout(), r)
				}
				return writeDealership(cmd.OutOrStdout(), r, c.writeOptions())
			})
		},
	}
	cmd.Flags().IntP("limit", "l", 0, "Number of worst visits to list (default 3)")
	if err := c.v.BindPFlags(cmd.Flags()); err != nil {
		panic(fmt.Sprintf("binding dealership flags: %v", err))
	}
	return cmd
}

func (c *CLI) writeOptions() writeOptions {
	return writeOptions{Explain: c.settings.Explain, UseColors: c.settings.Color}
}
