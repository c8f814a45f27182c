package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/aretw0/iqcapture/internal/cli"
	"github.com/aretw0/iqcapture/internal/config"
	"github.com/aretw0/iqcapture/pkg/adapters/console"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	v         = viper.New()
	prepErr   error
	skipPause bool

	style            = console.NewStyler(console.IsInteractive(os.Stdout))
	confirmer, pause = console.New(os.Stdin, os.Stdout, console.WithStyler(style))
)

var rootCmd = &cobra.Command{
	Use:   "iqcapture",
	Short: "Capture IQ data for every signal configuration in a container",
	Long: `iqcapture opens an instrument session, loads a configuration container and walks its
signal configurations in order. For each one it asks for confirmation, runs the measurement
and writes the acquired IQ samples to a text file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if prepErr != nil {
			return prepErr
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		// From here on failures are reported by the capture run itself.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Execute(ctx, cli.RunOptions{
			Config:    cfg,
			Confirmer: confirmer,
			Out:       cmd.OutOrStdout(),
			Style:     style,
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	def := config.Default()
	flags := rootCmd.Flags()
	flags.StringP("instr", "i", "", "instrument identifier (required)")
	flags.StringP("path", "f", "", "configuration container to load (required)")
	flags.StringP("output", "o", "", "directory for IQ capture files (default is the working directory)")
	flags.String("log-level", def.LogLevel, "log level on stderr: debug, info, warn, error or off")
	flags.Duration("measurement-timeout", def.MeasurementTimeout, "bound on each measurement; negative waits without bound")
	flags.Duration("fetch-timeout", def.FetchTimeout, "bound on each IQ fetch; negative waits without bound")
	flags.String("metrics-file", "", "write Prometheus text-format metrics to this file after the run")
	flags.Bool("plot", false, "write a PNG plot next to every IQ capture")
	flags.Bool("summary", false, "print a summary table after the run")
	flags.Bool("no-pause", false, "exit without waiting for a key")
	flags.StringSlice("allow-instr", nil, "instrument identifiers the simulated driver accepts (default any)")
	_ = v.BindPFlags(flags)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
}

func initConfig() {
	// A .env file in the working directory may carry IQCAPTURE_* overrides.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		prepErr = err
		return
	}
	prepErr = config.Prepare(v, cfgFile)
}

// shouldPause reports whether the process waits for a key before exiting.
func shouldPause() bool {
	if skipPause || v.GetBool("no-pause") {
		return false
	}
	if f := rootCmd.Flags().Lookup("help"); f != nil && f.Changed {
		return false
	}
	return true
}
