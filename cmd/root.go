package cmd

import (
	"os"

	"github.com/josephlewis42/lsh/commands"
	"github.com/josephlewis42/lsh/core/config"
	"github.com/josephlewis42/lsh/core/logger"
	"github.com/josephlewis42/lsh/core/tokenize"
	"github.com/josephlewis42/lsh/core/vos"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	colorMode   string
	commandLine string

	// exitCode is the status lsh terminates with once the command finished.
	exitCode int
)

func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(afero.NewOsFs(), cfgPath)
}

// newShell builds an interpreter on the process's own streams and
// environment.
func newShell(cmd *cobra.Command, input commands.LineReader) (*commands.Shell, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("color") {
		cfg.Color = colorMode
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log, err := logger.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	tokenizer, err := tokenize.ForMode(cfg.Tokenizer)
	if err != nil {
		return nil, err
	}

	shell := commands.NewShell(vos.NewOSIO(), vos.OSEnv{}, input)
	shell.Log = log
	shell.Launcher = vos.NewForkExecLauncher(log)
	shell.Tokenizer = tokenizer
	shell.Prompt = commands.NewPrompt(cfg.Prompt)
	shell.Prompt.SetColorMode(cfg.Color)
	return shell, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lsh",
	Short: "A small interactive command interpreter",
	Long: `lsh reads one command per line, runs builtins itself and searches
$PATH for everything else, waiting for each program before prompting again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if commandLine != "" {
			shell, err := newShell(cmd, nil)
			if err != nil {
				return err
			}
			exitCode = shell.RunCommand(commandLine)
			return nil
		}

		input, err := commands.NewReadlineInput(vos.NewOSIO())
		if err != nil {
			return err
		}
		defer input.Close()

		shell, err := newShell(cmd, input)
		if err != nil {
			return err
		}

		exitCode = int(shell.Run())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "directory containing config.yaml, or the file itself")
	rootCmd.Flags().StringVar(&colorMode, "color", config.ColorAuto, "color the prompt (always|auto|never)")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit with its status")
}
