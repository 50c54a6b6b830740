package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ormstarter/ormstarter/internal/manifest"
	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/ormstarter/ormstarter/internal/runtime"
	"github.com/ormstarter/ormstarter/internal/setup"
	"github.com/spf13/cobra"
)

var checkManifest string

func init() {
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a package.json at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the toolchain and the templates root",
	Long: `Run diagnostic checks: node and npm on PATH, the templates root, each
template's source directory, the shared .env.example and .env, and the
generated package.json of every template.

Exits non-zero when a required check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if checkManifest != "" {
			return runManifestCheck(a.out, checkManifest)
		}
		d := &doctor{out: a.out}
		d.runtimeCheck(cmd.Context())
		d.templatesCheck(a.settings.TemplatesRoot, a.registry)
		d.manifestsCheck(a.registry)
		if d.failures > 0 {
			return fmt.Errorf("%d check(s) failed", d.failures)
		}
		return nil
	},
}

// doctor prints check lines and counts failures.
type doctor struct {
	out      io.Writer
	failures int
}

func (d *doctor) ok(format string, args ...any) {
	fmt.Fprintf(d.out, "  %s %s\n", styleSuccess("[ OK ]"), fmt.Sprintf(format, args...))
}

func (d *doctor) warn(format string, args ...any) {
	fmt.Fprintf(d.out, "  %s %s\n", styleWarn("[WARN]"), fmt.Sprintf(format, args...))
}

func (d *doctor) fail(format string, args ...any) {
	d.failures++
	fmt.Fprintf(d.out, "  %s %s\n", styleError("[FAIL]"), fmt.Sprintf(format, args...))
}

func (d *doctor) runtimeCheck(ctx context.Context) {
	fmt.Fprintln(d.out, "Runtime check:")
	for _, name := range []string{"node", "npm"} {
		version, err := binaryVersion(ctx, name)
		if err != nil {
			d.fail("%s: %v", name, err)
			continue
		}
		d.ok("%s %s", name, version)
	}
}

// binaryVersion runs "<name> --version" and returns its first output line.
func binaryVersion(ctx context.Context, name string) (string, error) {
	r := &runtime.Runner{Stdin: strings.NewReader(""), Stdout: io.Discard, Stderr: io.Discard}
	out, err := r.Run(ctx, runtime.Command{Program: name, Args: []string{"--version"}})
	if err != nil {
		return "", err
	}
	return runtime.FirstLine(out.Stdout), nil
}

func (d *doctor) templatesCheck(root string, reg *registry.Registry) {
	fmt.Fprintln(d.out, "Templates check:")
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		d.fail("templates root %s not found", root)
		return
	}
	abs, _ := filepath.Abs(root)
	d.ok("templates root %s", abs)

	for _, desc := range reg.All() {
		src := registry.SourceDir(root, desc.Key)
		if info, err := os.Stat(src); err != nil || !info.IsDir() {
			d.fail("%s: source directory %s missing", desc.Key, src)
			continue
		}
		if desc.Typed {
			if _, err := os.Stat(filepath.Join(src, setup.TSConfigFileName)); err != nil {
				d.warn("%s: %s missing (run setup)", desc.Key, setup.TSConfigFileName)
				continue
			}
		}
		d.ok("%s: %s", desc.Key, src)
	}

	if _, err := os.Stat(registry.EnvTemplatePath(root)); err != nil {
		d.warn("%s missing; extracted projects will not get one", registry.EnvTemplateName)
	} else {
		d.ok("%s present", registry.EnvTemplateName)
	}

	env, err := setup.ReadEnv(setup.EnvPath(root))
	if err != nil {
		d.warn("%s missing (run setup)", setup.EnvFileName)
		return
	}
	var missing []string
	for _, key := range []string{setup.KeyDBHost, setup.KeyDBName, setup.KeyMongoURI, setup.KeyDatabaseURL} {
		if env[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		d.warn("%s does not set %s", setup.EnvFileName, strings.Join(missing, ", "))
		return
	}
	d.ok("%s configured", setup.EnvFileName)
}

func (d *doctor) manifestsCheck(reg *registry.Registry) {
	fmt.Fprintln(d.out, "Manifest check:")
	for _, desc := range reg.All() {
		result, err := manifest.ValidatePackage(manifest.FromDescriptor(desc))
		if err != nil {
			d.fail("%s: %v", desc.Key, err)
			continue
		}
		if !result.Valid {
			d.fail("%s: %d validation issue(s)", desc.Key, len(result.Issues))
			for _, issue := range result.Issues {
				fmt.Fprintf(d.out, "    - %s\n", issue)
			}
			continue
		}
		d.ok("%s: %s is valid", desc.Key, manifest.FileName)
	}
}

func runManifestCheck(out io.Writer, path string) error {
	fmt.Fprintf(out, "Manifest validation: %s\n", path)

	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(out, "  %s %v\n", styleError("[FAIL]"), err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		pkg, err := manifest.Read(path)
		if err != nil {
			fmt.Fprintf(out, "  %s Valid manifest\n", styleSuccess("[ OK ]"))
			return nil
		}
		fmt.Fprintf(out, "  %s Valid manifest: %s (v%s)\n", styleSuccess("[ OK ]"), pkg.Name, pkg.Version)
		return nil
	}

	fmt.Fprintf(out, "  %s %d validation issue(s):\n", styleError("[FAIL]"), len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "    - %s\n", issue)
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}
