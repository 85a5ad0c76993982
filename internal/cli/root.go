// Package cli implements otctl, the terminal client for work orders.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"maintenanceManagement/internal/client"
	"maintenanceManagement/internal/config"
	"maintenanceManagement/internal/logging"
	"maintenanceManagement/internal/session"
	"maintenanceManagement/internal/workorder"
)

const (
	transportHTTP = "http"
	transportGRPC = "grpc"
)

// App holds what every otctl command needs.
type App struct {
	Config *config.Config
	In     io.Reader
	Out    io.Writer
	Err    io.Writer

	verbose    bool
	serverFlag bool
	configPath string
	logger     *zap.Logger
	store      *session.FileStore
}

// NewApp returns an App reading stdin and writing to stdout and stderr.
func NewApp(cfg *config.Config) *App {
	return &App{Config: cfg, In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// NewRootCmd builds the otctl command tree.
func NewRootCmd(app *App) *cobra.Command {
	cc := &app.Config.Client
	root := &cobra.Command{
		Use:   "otctl",
		Short: "Manage maintenance work orders",
		Long: `otctl talks to the work order server.

Sign in once with "otctl login"; the session is kept in ~/.otctl/session.yaml
and decides which commands are available:
  admin     otctl ots list|create|update|delete
  operario  otctl ots mine|start|finish`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app.serverFlag = cmd.Flags().Changed("server")
			if app.configPath != "" {
				if err := app.loadConfigFile(cmd.Flags()); err != nil {
					return err
				}
			}
			return app.init()
		},
	}
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	f := root.PersistentFlags()
	f.StringVar(&cc.BaseURL, "server", cc.BaseURL, "REST API base URL")
	f.StringVar(&cc.GRPCAddress, "grpc-address", cc.GRPCAddress, "gRPC server address")
	f.StringVar(&cc.Transport, "transport", cc.Transport, "work order transport: http or grpc")
	f.StringVar(&cc.SessionFile, "session", cc.SessionFile, "session file (default ~/.otctl/session.yaml)")
	f.StringVar(&app.configPath, "config", "", "YAML config file; explicit flags win over it")
	f.BoolVarP(&app.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(loginCmd(app), logoutCmd(app), whoamiCmd(app), otsCmd(app))
	return root
}

// loadConfigFile replaces the client settings with the ones in --config,
// keeping any value set by an explicit flag.
func (a *App) loadConfigFile(flags *pflag.FlagSet) error {
	loaded, err := config.LoadFile(a.configPath)
	if err != nil {
		return err
	}
	cc, cur := loaded.Client, a.Config.Client
	if flags.Changed("server") {
		cc.BaseURL = cur.BaseURL
	}
	if flags.Changed("grpc-address") {
		cc.GRPCAddress = cur.GRPCAddress
	}
	if flags.Changed("transport") {
		cc.Transport = cur.Transport
	}
	if flags.Changed("session") {
		cc.SessionFile = cur.SessionFile
	}
	a.Config.Client = cc
	return nil
}

func (a *App) init() error {
	if a.verbose {
		l, err := logging.New(config.LoggingConfig{Level: "debug", Format: "console"})
		if err != nil {
			return err
		}
		a.logger = l
	} else {
		a.logger = zap.NewNop()
	}

	path := a.Config.Client.SessionFile
	if path == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	store, err := session.OpenFile(path)
	if err != nil {
		return err
	}
	a.store = store
	return nil
}

// remote opens the configured work order transport with the saved token.
// The returned close func is never nil.
func (a *App) remote() (workorder.Remote, func() error, error) {
	cc := a.Config.Client
	token := a.store.Token()
	switch cc.Transport {
	case transportHTTP, "":
		server := cc.BaseURL
		if saved := a.store.Server(); saved != "" && !a.serverFlag {
			server = saved
		}
		return client.NewHTTPClient(server, token), func() error { return nil }, nil
	case transportGRPC:
		c, err := client.DialGRPC(cc.GRPCAddress, token)
		if err != nil {
			return nil, nil, fmt.Errorf("dial %s: %w", cc.GRPCAddress, err)
		}
		return c, c.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown transport %q (want %s or %s)", cc.Transport, transportHTTP, transportGRPC)
	}
}

func (a *App) listConfig() workorder.Config {
	return workorder.Config{PageSize: a.Config.Client.PageSize, Logger: a.logger}
}

// errFailed marks a command whose failure message was already printed.
var errFailed = errors.New("command failed")

// Run executes otctl with args and returns the process exit code.
func Run(app *App, args []string) int {
	root := NewRootCmd(app)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			failure(app.Err, err.Error())
		}
		return 1
	}
	return 0
}

func withRemote(a *App, fn func(ctx context.Context, r workorder.Remote) error) error {
	r, closeFn, err := a.remote()
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			a.logger.Warn("close transport", zap.Error(err))
		}
	}()
	return fn(context.Background(), r)
}
