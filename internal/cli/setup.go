package cli

import (
	"context"
	"fmt"

	"github.com/ormstarter/ormstarter/internal/setup"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	host     string
	port     string
	user     string
	password string
	name     string
	mongoURI string
	yes      bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Prepare .env and TypeScript configs in the templates root",
	Long: `Create <root>/.env from .env.example (or built-in defaults) when it is
missing, write the database settings into it and add a tsconfig.json to
every TypeScript template that lacks one.

Flags pre-fill the answers; --yes accepts them without prompting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return runSetup(cmd.Context(), a, !setupFlags.yes, setupOverride(cmd))
	},
}

func init() {
	f := setupCmd.Flags()
	f.StringVar(&setupFlags.host, "db-host", "", "Database host")
	f.StringVar(&setupFlags.port, "db-port", "", "Database port")
	f.StringVar(&setupFlags.user, "db-user", "", "Database username")
	f.StringVar(&setupFlags.password, "db-password", "", "Database password")
	f.StringVar(&setupFlags.name, "db-name", "", "Database name")
	f.StringVar(&setupFlags.mongoURI, "mongo-uri", "", "MongoDB connection URI")
	f.BoolVarP(&setupFlags.yes, "yes", "y", false, "Use defaults and flags without prompting")
	rootCmd.AddCommand(setupCmd)
}

// setupOverride applies only the flags that were set on cmd.
func setupOverride(cmd *cobra.Command) func(*setup.Answers) {
	return func(ans *setup.Answers) {
		f := cmd.Flags()
		for flag, dst := range map[string]*string{
			"db-host":     &ans.DBHost,
			"db-port":     &ans.DBPort,
			"db-user":     &ans.DBUser,
			"db-password": &ans.DBPassword,
			"db-name":     &ans.DBName,
			"mongo-uri":   &ans.MongoURI,
		} {
			if f.Changed(flag) {
				*dst, _ = f.GetString(flag)
			}
		}
	}
}

func runSetup(ctx context.Context, a *app, interactive bool, override func(*setup.Answers)) error {
	out := a.out
	fmt.Fprintln(out, styleHeading("\n🔧 ORM Templates Setup\n"))

	if !a.templatesRootExists() {
		return fmt.Errorf("templates root %s does not exist", a.settings.TemplatesRoot)
	}

	s := &setup.Setup{
		Root:     a.settings.TemplatesRoot,
		Registry: a.registry,
		Override: override,
	}
	if interactive {
		s.UI = a.ui()
		fmt.Fprintln(out, styleWarn("Database Configuration:"))
	}

	res, err := s.Run(ctx)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	if res.EnvCreated {
		fmt.Fprintln(out, styleSuccess(fmt.Sprintf("✓ Created %s from %s", setup.EnvFileName, res.EnvSource)))
	}
	fmt.Fprintln(out, styleSuccess(fmt.Sprintf("✓ Updated %s with your database configuration", setup.EnvFileName)))
	for _, p := range res.TSConfigs {
		fmt.Fprintln(out, styleSuccess("✓ Created "+p))
	}

	fmt.Fprintln(out, styleOK("\n✅ Setup complete!\n"))
	fmt.Fprintln(out, styleWarn("Next steps:"))
	for i, step := range []string{
		"Make sure your databases are running",
		"Create the database: " + res.Env[setup.KeyDBName],
		"Run migrations for the ORMs you want to use",
		"Test all ORMs: " + rootCmd.Name() + " test-all",
	} {
		fmt.Fprintf(out, "%d. %s\n", i+1, step)
	}
	return nil
}
