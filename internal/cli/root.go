package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/ormstarter/ormstarter/internal/branding"
	"github.com/ormstarter/ormstarter/internal/config"
	"github.com/ormstarter/ormstarter/internal/logging"
	"github.com/ormstarter/ormstarter/internal/prompt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` extracts ORM starter templates (Sequelize, Mongoose, TypeORM, Prisma,
Knex, Objection and MikroORM) into standalone projects, seeds their databases
and smoke-tests their APIs.

Run without arguments for the interactive menu.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		if noColor {
			color.NoColor = true
		}
		log := logging.New(cmd.ErrOrStderr(), viper.GetString(config.KeyLogLevel))
		cmd.SetContext(log.WithContext(cmd.Context()))
		return nil
	},
	RunE: runMenu,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("root", "", `Templates repository root (default ".")`)
	pf.String("log-level", "", "Log level: debug, info, warn, error (default info)")
	pf.Bool("strict", false, "Exit non-zero when any template in a batch fails")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")
	bindFlags()
}

// bindFlags links persistent flags to their config keys.
func bindFlags() {
	pf := rootCmd.PersistentFlags()
	_ = viper.BindPFlag(config.KeyTemplatesRoot, pf.Lookup("root"))
	_ = viper.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyStrict, pf.Lookup("strict"))
}

// Execute runs the root command with build info injected via ldflags.
// SIGINT and SIGTERM cancel the command context, which stops any running
// template process.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
	case isInterrupt(err):
		fmt.Fprintln(os.Stderr, styleWarn("\nGoodbye!"))
	default:
		fmt.Fprintf(os.Stderr, "%s %v\n", styleError("Error:"), err)
	}
	return err
}

// ExitCode maps a command error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case isInterrupt(err):
		return 130
	default:
		return 1
	}
}

func isInterrupt(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, prompt.ErrInterrupted)
}
