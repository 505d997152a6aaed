package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/JapaKeeper/internal/api"
	"github.com/atinyakov/JapaKeeper/internal/client/prompt"
	"github.com/atinyakov/JapaKeeper/internal/config"
	"github.com/atinyakov/JapaKeeper/internal/logger"
	"github.com/atinyakov/JapaKeeper/internal/nav"
	"github.com/atinyakov/JapaKeeper/internal/screen"
	"github.com/atinyakov/JapaKeeper/internal/session"
)

// app is the state shared by every command once flags are parsed.
type app struct {
	opts   config.Options
	logger *logger.Logger
	store  *session.Store
	closer io.Closer
	api    *api.Client
	nav    *nav.Navigator
	prompt *prompt.Prompter
	out    io.Writer
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{
		logger: logger.New(),
		prompt: prompt.New(in, out),
		out:    out,
	}

	root := &cobra.Command{
		Use:           "client",
		Short:         "Terminal client for recording Japa counts",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), a)
		},
	}
	root.SetVersionTemplate("JapaKeeper Client\nVersion: {{.Version}}\nBuild Date: " + buildDate + "\n")
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)
	a.opts.RegisterFlags(root.PersistentFlags())
	// --version must exist before cobra looks up the subcommand.
	root.InitDefaultVersionFlag()

	root.AddCommand(
		newShellCmd(a),
		newLoginCmd(a),
		newRegisterCmd(a),
		newSubmitCmd(a),
		newHistoryCmd(a),
		newRequestCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
	)
	return root
}

// setup loads the configuration and opens the session store and HTTP client.
func (a *app) setup() error {
	if err := a.opts.Load(); err != nil {
		return err
	}
	if err := a.logger.Init(a.opts.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.opts.LogLevel, err)
	}
	log := a.logger.Log

	kv, closer, err := session.OpenKV(a.opts.Store, a.opts.StoreDSN)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	a.closer = closer
	a.store = session.NewStore(kv, log)

	httpClient, err := api.NewHTTPClient(a.opts.CAFile, a.opts.Timeout, log)
	if err != nil {
		return err
	}
	a.api = api.New(a.opts.BaseURL, httpClient)

	a.nav = nav.New(nav.Splash)
	a.nav.Subscribe(func(e nav.Event) {
		log.Debug("navigation",
			zap.String("kind", string(e.Kind)),
			zap.String("from", string(e.From)),
			zap.String("to", string(e.To)),
		)
	})

	log.Info("client started",
		zap.String("base_url", a.opts.BaseURL),
		zap.String("store", a.opts.Store),
	)
	return nil
}

func (a *app) close() error {
	_ = a.logger.Log.Sync()
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *app) deps() screen.Deps {
	return screen.Deps{
		Session: a.store,
		API:     a.api,
		Nav:     a.nav,
		Log:     a.logger.Log,
	}
}

// at makes s the only screen on the stack, for one-shot commands.
func (a *app) at(s nav.Screen, p nav.Params) screen.Deps {
	_ = a.nav.Reset(s, p)
	return a.deps()
}

// printOutcome writes an alert or the inline errors of o.
func printOutcome(w io.Writer, o screen.Outcome) {
	if o.Alert != nil {
		fmt.Fprintf(w, "%s: %s\n", o.Alert.Title, o.Alert.Message)
	}
	for _, k := range o.Errors.Keys() {
		fmt.Fprintf(w, "  %s: %s\n", k, o.Errors[k])
	}
}

// outcomeErr turns a failed outcome into the command error.
func outcomeErr(o screen.Outcome) error {
	switch {
	case o.Alert != nil:
		return errors.New(o.Alert.Message)
	case !o.OK():
		return errors.New("please correct the fields above")
	}
	return nil
}
