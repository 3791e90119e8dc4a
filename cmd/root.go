package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bz888/medirag/internal/api"
	"github.com/bz888/medirag/internal/config"
	"github.com/bz888/medirag/internal/logger"
	"github.com/bz888/medirag/internal/session"
	"github.com/bz888/medirag/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errQueryFailed marks a failure that was already reported to the user.
var errQueryFailed = errors.New("query failed")

type options struct {
	v   *viper.Viper
	cfg *config.Config
}

// NewRootCmd builds the command tree. Each call gets its own viper instance.
func NewRootCmd() *cobra.Command {
	o := &options{v: viper.New()}

	root := &cobra.Command{
		Use:   "medirag",
		Short: "MediRAG terminal client",
		Long:  "MediRAG: Grounded Drug Information. Zero Hallucination.\nAsk questions about medications and get answers grounded in the MediRAG document store.",

		SilenceUsage:  true,
		SilenceErrors: true,

		// Runs before this command and any subcommands
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(o.v)
			if err != nil {
				return err
			}
			o.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runTUI(cmd.Context())
		},
	}

	pflags := root.PersistentFlags()
	pflags.String("api-url", config.DefaultAPIURL, "Base URL of the MediRAG API")
	pflags.Bool("production", false, "Production deployment: the local model is unavailable")
	pflags.Bool("dev", false, "Development mode, shows the debug console")
	pflags.String("log-path", "", "Directory to save the log file in")
	pflags.String("config-file", "", "Path to the config file")
	pflags.String("env-file", "", "Path to the env file")

	for key, flag := range map[string]string{
		config.KeyAPIURL:     "api-url",
		config.KeyProduction: "production",
		config.KeyDev:        "dev",
		config.KeyLogPath:    "log-path",
		config.KeyConfigFile: "config-file",
		config.KeyEnvFile:    "env-file",
	} {
		if err := o.v.BindPFlag(key, pflags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}

	root.AddCommand(newAskCmd(o), newStubCmd(o))
	root.CompletionOptions.HiddenDefaultCmd = true
	return root
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errQueryFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func closeLogger() {
	if err := logger.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func (o *options) newSession() (*session.Session, error) {
	client, err := api.NewClient(o.cfg.APIURL, nil)
	if err != nil {
		return nil, err
	}
	return session.New(client, o.cfg.Production), nil
}

func (o *options) runTUI(ctx context.Context) error {
	sess, err := o.newSession()
	if err != nil {
		return err
	}

	u := ui.New(sess, o.cfg.Dev)
	if err := logger.InitLogger(o.cfg.Dev, o.cfg.LogPath, u.DebugConsole()); err != nil {
		return err
	}
	defer closeLogger()

	logger.NewLogger("main").Infow("Starting MediRAG", "api_url", o.cfg.APIURL, "production", o.cfg.Production)
	return u.Run(ctx)
}
