package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/Jumpaku/go-drivestorage"
	"github.com/Jumpaku/go-drivestorage/internal/config"
	"github.com/Jumpaku/go-drivestorage/internal/logging"
	"github.com/Jumpaku/go-drivestorage/internal/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

var cfgFile string

var cfg *config.Config

// ErrUsage is returned when a command is called with bad arguments.
var ErrUsage = errors.New("bad usage of command")

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "drivestorage",
	Short: "drivestorage accesses Google Drive through gdrive:// paths",
	Long: `drivestorage reads and writes Google Drive files addressed by paths of the form
gdrive://<account>/<name>%5C<id>/... in which every segment carries the id of
the object it names.

Paths may also be given relative to the root of the configured account, e.g.
Notes%5C1a2b/todo.txt%5C3c4d.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Setup(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		if err := logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, OutputPath: cfg.Log.Output}); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		if cfg.Metrics.Addr != "" {
			go serveMetrics(cfg.Metrics.Addr)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Usage()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", `configuration file (default "$HOME/`+config.Filename+`.yaml")`)

	flags.StringP("account", "a", "", "account used for paths relative to the account root")
	checkNoErr(viper.BindPFlag("account", flags.Lookup("account")))

	flags.String("credentials", "", "service account or authorized user JSON file (default: application default credentials)")
	checkNoErr(viper.BindPFlag("credentials", flags.Lookup("credentials")))

	flags.Duration("timeout", 0, "timeout of a command")
	checkNoErr(viper.BindPFlag("timeout", flags.Lookup("timeout")))

	flags.String("log-level", "", "log level (debug, info, warn, error)")
	checkNoErr(viper.BindPFlag("log.level", flags.Lookup("log-level")))

	flags.String("metrics-addr", "", "serve Prometheus metrics on this address while the command runs")
	checkNoErr(viper.BindPFlag("metrics.addr", flags.Lookup("metrics-addr")))
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logging.Error("metrics server stopped", logging.String("addr", addr), logging.Err(err))
	}
}

// commandContext returns the context of a command, bounded by the configured timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if cfg.Timeout > 0 {
		return context.WithTimeout(cmd.Context(), cfg.Timeout)
	}
	return context.WithCancel(cmd.Context())
}

// resolveArg turns an argument into a full path. Arguments without the gdrive:// scheme are relative to the configured account.
func resolveArg(arg string) (string, error) {
	if strings.HasPrefix(arg, drivestorage.ProtocolID+"://") {
		return arg, nil
	}
	if cfg.Account == "" {
		return "", fmt.Errorf("%w: %q is not a %s:// path and no account is configured", ErrUsage, arg, drivestorage.ProtocolID)
	}
	return drivestorage.RootPath(cfg.Account) + strings.TrimPrefix(arg, "/"), nil
}

// openStorage authorizes the account of path and returns a Storage serving it.
func openStorage(ctx context.Context, path string) (*drivestorage.Storage, error) {
	p, err := drivestorage.ParsePath(path)
	if err != nil {
		return nil, err
	}
	service, err := newDriveService(ctx)
	if err != nil {
		return nil, err
	}
	s := drivestorage.New()
	if _, err := s.Authorize(ctx, p.Account, drivestorage.NewDriveClient(p.Account, service)); err != nil {
		return nil, err
	}
	return s, nil
}

func newDriveService(ctx context.Context) (*drive.Service, error) {
	if cfg.CredentialsFile == "" {
		client, err := google.DefaultClient(ctx, drive.DriveScope)
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w", err)
		}
		return drive.NewService(ctx, option.WithHTTPClient(client))
	}
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials %s: %w", cfg.CredentialsFile, err)
	}
	return drive.NewService(ctx, option.WithCredentials(creds))
}

func checkNoErr(err error) {
	if err != nil {
		panic(err)
	}
}

func errPrintfln(format string, vals ...interface{}) {
	_, err := fmt.Fprintf(os.Stderr, format+"\n", vals...)
	if err != nil {
		panic(err)
	}
}
