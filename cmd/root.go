package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tlpswitch/internal/app"
	"tlpswitch/internal/cli"
)

// Exit codes for tlpswitch CLI commands.
// These allow scripts to distinguish a refused or failed apply from other errors.
const (
	// ExitCodeSuccess indicates the command completed successfully.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error.
	ExitCodeError = 1
	// ExitCodeApplyFailed indicates the privileged apply was declined or failed.
	ExitCodeApplyFailed = 2
)

// envPrefix is the prefix of environment variables overriding flags,
// e.g. TLPSWITCH_PROFILE_DIR for --profile-dir.
const envPrefix = "TLPSWITCH"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tlpswitch",
	Short: "Switch between TLP power management profiles",
	Long: `tlpswitch keeps a folder of named TLP profiles (~/.tlp/*.conf by default)
and makes one of them the machine's live TLP configuration.

The active profile is found by comparing every profile with /etc/tlp.conf,
ignoring comments, blank lines and the order of settings. Applying a profile
copies it over the live configuration with elevated privileges (pkexec)
and restarts TLP.

Run 'tlpswitch serve' to keep watching the profile folder and log every
change, or use the one-shot commands to list, inspect and apply profiles.`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the version of the root command.
func GetVersion() string {
	return rootCmd.Version
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// On error, it exits with an appropriate exit code based on the error type.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "tlpswitch version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var applyFailed *cli.ApplyFailedError
	if errors.As(err, &applyFailed) {
		return ExitCodeApplyFailed
	}

	return ExitCodeError
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.config/tlpswitch/config.yaml)")
	rootCmd.PersistentFlags().String("profile-dir", "", "Profile directory (overrides profiles.dir)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	for _, name := range []string{"config", "profile-dir", "debug"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", name, err))
		}
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newOpenCmd())
}

// initConfig wires environment variables into viper.
func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// newApplication bootstraps the application from flags and environment.
func newApplication(cmd *cobra.Command, watch bool) (*app.Application, error) {
	cfg := app.NewConfig(viper.GetBool("debug"), viper.GetString("config"), viper.GetString("profile-dir"))
	cfg.Watch = watch
	cfg.LogOutput = cmd.ErrOrStderr()

	application, err := app.NewApplication(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, nil
}

// addOutputFlag registers --output on cmd and binds it for env overrides.
func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", string(cli.OutputFormatTable), "Output format: table, wide, json, yaml, template")
	cmd.Flags().String("template", "", "Go template for -o template, e.g. '{{ .ActiveProfile }}'")
}

// printerOptions builds printer options from the output flags.
func printerOptions(cmd *cobra.Command) (cli.PrinterOptions, error) {
	format, err := outputFormat(cmd)
	if err != nil {
		return cli.PrinterOptions{}, err
	}
	tmpl, err := cmd.Flags().GetString("template")
	if err != nil {
		return cli.PrinterOptions{}, err
	}
	if format == cli.OutputFormatTemplate && tmpl == "" {
		return cli.PrinterOptions{}, fmt.Errorf("--template is required with -o template")
	}
	return cli.PrinterOptions{Format: format, Template: tmpl}, nil
}

// outputFormat returns the validated --output value.
func outputFormat(cmd *cobra.Command) (cli.OutputFormat, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}
	if !cmd.Flags().Changed("output") && viper.IsSet("output") {
		format = viper.GetString("output")
	}
	if err := cli.ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return cli.OutputFormat(format), nil
}

// commandContext returns the command context, or a background context when
// the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
