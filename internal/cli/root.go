// Package cli implements riskctl, the command-line front end to the risk engine.
package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/godilite/dealer-risk/internal/repository"
	"github.com/godilite/dealer-risk/internal/risk"
	"github.com/godilite/dealer-risk/internal/service"
	dbbuilder "github.com/godilite/dealer-risk/pkg/database"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	textOut = "text"
	jsonOut = "json"

	asOfLayout = "2006-01-02"
)

// Settings is the resolved configuration from flags, RISKCTL_* env vars and .riskctl.yaml.
type Settings struct {
	Config    string  `mapstructure:"config"`
	DBDriver  string  `mapstructure:"db-driver"`
	DBPath    string  `mapstructure:"db-path"`
	Output    string  `mapstructure:"output"`
	Color     bool    `mapstructure:"color"`
	Verbose   bool    `mapstructure:"verbose"`
	Explain   bool    `mapstructure:"explain"`
	AsOf      string  `mapstructure:"as-of"`
	Limit     int     `mapstructure:"limit"`
	BasePrice float64 `mapstructure:"base-price"`
	Currency  string  `mapstructure:"currency"`
}

// CLI carries the state shared by every riskctl command.
type CLI struct {
	v        *viper.Viper
	settings Settings
	logger   *zap.Logger
	now      func() time.Time
}

// NewRootCommand builds the riskctl command tree.
func NewRootCommand() *cobra.Command {
	c := &CLI{v: viper.New(), logger: zap.NewNop(), now: time.Now}
	return c.rootCommand()
}

func (c *CLI) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "riskctl",
		Short: "Score dealership visits, customers and dealerships for churn risk.",
		Long: `riskctl reads CRM records from the configured database and explains how
likely a customer or a whole dealership is to churn.

Examples:
  # Create the schema and load a fixture
  riskctl migrate
  riskctl import fixtures.json

  # Score one stored visit with its full breakdown
  riskctl visit v-1001 --explain

  # Customer and dealership risk as of a given day
  riskctl customer c-42 --as-of 2024-03-31
  riskctl dealership dlr-1 --limit 5 --output json`,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.loadSettings()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to config file (default .riskctl.yaml in . or $HOME)")
	flags.String("db-driver", "sqlite3", "database/sql driver: sqlite3 or pgx")
	flags.String("db-path", "./data/dealer_risk.db", "Database DSN or sqlite file path")
	flags.String("output", textOut, "Output format: text or json")
	flags.Bool("color", true, "Color risk levels in text output")
	flags.Bool("verbose", false, "Log storage and scoring activity to stderr")
	flags.Bool("explain", false, "Print the full explanation under each result")
	flags.String("as-of", "", "Evaluate history as of this day (YYYY-MM-DD, default today)")
	flags.Float64("base-price", 0, "Override the reference service price")
	flags.String("currency", "", "Override the currency symbol used in explanations")
	if err := c.v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("binding root flags: %v", err))
	}

	root.AddCommand(
		c.migrateCommand(),
		c.importCommand(),
		c.visitCommand(),
		c.customerCommand(),
		c.dealershipCommand(),
	)
	return root
}

// loadSettings merges defaults, config file, env and flags into c.settings.
func (c *CLI) loadSettings() error {
	if configFile := c.v.GetString("config"); configFile != "" {
		c.v.SetConfigFile(configFile)
	} else {
		c.v.SetConfigName(".riskctl")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(".")
		c.v.AddConfigPath("$HOME")
	}

	c.v.SetEnvPrefix("RISKCTL")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := c.v.Unmarshal(&c.settings); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	switch c.settings.Output {
	case textOut, jsonOut:
	default:
		return fmt.Errorf("unsupported output %q: want text or json", c.settings.Output)
	}

	if c.settings.Verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("logger init: %w", err)
		}
		c.logger = logger
	}
	return nil
}

func (c *CLI) asOf() (time.Time, error) {
	if c.settings.AsOf == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(asOfLayout, c.settings.AsOf, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: want YYYY-MM-DD", c.settings.AsOf)
	}
	// the whole day counts
	return t.Add(24*time.Hour - time.Nanosecond), nil
}

func (c *CLI) engine() (*risk.Engine, error) {
	cfg := risk.DefaultConfig()
	if c.settings.BasePrice > 0 {
		cfg.BasePrice = c.settings.BasePrice
	}
	if c.settings.Currency != "" {
		cfg.CurrencySymbol = c.settings.Currency
	}
	if c.settings.Limit > 0 {
		cfg.WorstVisitsLimit = c.settings.Limit
	}
	return risk.New(cfg)
}

func (c *CLI) openDB() (*sql.DB, repository.Dialect, error) {
	dialect := repository.DialectForDriver(c.settings.DBDriver)
	if dialect == repository.DialectSQLite {
		if dir := filepath.Dir(c.settings.DBPath); dir != "." && !strings.HasPrefix(c.settings.DBPath, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, dialect, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := dbbuilder.New(
		dbbuilder.WithDriver(c.settings.DBDriver),
		dbbuilder.WithDataSource(c.settings.DBPath),
		dbbuilder.WithRetry(1, 0),
	)
	if err != nil {
		return nil, dialect, err
	}
	c.logger.Debug("database opened",
		zap.String("driver", c.settings.DBDriver),
		zap.String("dialect", string(dialect)))
	return db, dialect, nil
}

// withService opens the store and hands a ready service to fn.
func (c *CLI) withService(fn func(*service.RiskService) error) error {
	engine, err := c.engine()
	if err != nil {
		return err
	}

	db, dialect, err := c.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewRiskRepository(db, repository.WithDialect(dialect))
	svc := service.NewRiskService(repo, c.logger,
		service.WithEngine(engine),
		service.WithClock(c.now),
	)
	return fn(svc)
}
