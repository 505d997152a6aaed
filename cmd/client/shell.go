package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/JapaKeeper/internal/client/prompt"
	"github.com/atinyakov/JapaKeeper/internal/nav"
	"github.com/atinyakov/JapaKeeper/internal/screen"
)

var errExit = errors.New("exit")

// shell drives the screens from the navigator's current entry.
type shell struct {
	a    *app
	home *screen.Home
}

// runShell runs the interactive loop until exit, end of input or ctx is done.
func runShell(ctx context.Context, a *app) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sh := &shell{a: a}
	defer func() {
		if sh.home != nil {
			sh.home.Dismiss()
		}
	}()

	for ctx.Err() == nil {
		entry := a.nav.Current()
		var err error
		switch entry.Screen {
		case nav.Splash:
			err = sh.splash(ctx)
		case nav.Login:
			err = sh.login(ctx)
		case nav.Register:
			err = sh.register(ctx)
		case nav.Home:
			err = sh.homeScreen(ctx)
		case nav.History:
			err = sh.history(ctx, entry.Params)
		case nav.RequestForm:
			err = sh.request(ctx)
		case nav.Success:
			err = sh.success(entry.Params)
		default:
			err = fmt.Errorf("no view for screen %q", entry.Screen)
		}
		if errors.Is(err, errExit) || errors.Is(err, prompt.ErrClosed) {
			fmt.Fprintln(a.out, "Bye")
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// command reads commands until one of cmds, or exit, is entered.
func (sh *shell) command(name string, cmds ...string) (string, error) {
	cmds = append(cmds, "exit")
	for {
		line, err := sh.a.prompt.Line("japa:" + strings.ToLower(name) + "> ")
		if err != nil {
			return "", err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Fprintf(sh.a.out, "Available commands: help, %s\n", strings.Join(cmds, ", "))
			continue
		case "exit":
			return "", errExit
		}
		for _, c := range cmds {
			if args[0] == c {
				return c, nil
			}
		}
		fmt.Fprintln(sh.a.out, "Unknown command. Type 'help' for a list of commands.")
	}
}

func (sh *shell) splash(ctx context.Context) error {
	s := screen.NewSplash(sh.a.deps())
	s.Step = sh.a.opts.SplashStep
	fmt.Fprintln(sh.a.out, "JapaKeeper")
	return s.Run(ctx)
}

func (sh *shell) login(ctx context.Context) error {
	s := screen.NewLogin(sh.a.deps())
	if redirected, err := s.Mount(ctx); err != nil || redirected {
		return err
	}

	fmt.Fprintln(sh.a.out, "Your Japa Journey")
	cmd, err := sh.command(string(nav.Login), "login", "register")
	if err != nil {
		return err
	}
	if cmd == "register" {
		return s.GoRegister()
	}

	var input, pin string
	if err := sh.a.prompt.Fill(
		prompt.Field{Label: "Email or phone", Dest: &input},
		prompt.Field{Label: "PIN", Dest: &pin},
	); err != nil {
		return err
	}
	o, err := s.Submit(ctx, input, pin)
	printOutcome(sh.a.out, o)
	return err
}

func (sh *shell) register(ctx context.Context) error {
	s := screen.NewRegister(sh.a.deps())

	fmt.Fprintln(sh.a.out, "Create Account")
	cmd, err := sh.command(string(nav.Register), "register", "login")
	if err != nil {
		return err
	}
	if cmd == "login" {
		return s.GoLogin()
	}

	var f screen.RegistrationForm
	if err := sh.a.prompt.Fill(
		prompt.Field{Label: "Name", Dest: &f.Name},
		prompt.Field{Label: "Email", Dest: &f.Email},
		prompt.Field{Label: "Phone", Dest: &f.Phone},
		prompt.Field{Label: "PIN", Dest: &f.Password},
		prompt.Field{Label: "Confirm PIN", Dest: &f.ConfirmPassword},
	); err != nil {
		return err
	}
	o, err := s.Submit(ctx, f)
	printOutcome(sh.a.out, o)
	return err
}

func (sh *shell) homeScreen(ctx context.Context) error {
	if sh.home == nil || sh.home.Dismissed() {
		sh.home = screen.NewHome(sh.a.deps())
		sh.home.Mount(ctx)
		sh.home.StartClock(ctx)
	} else {
		sh.home.Mount(ctx)
	}
	s := sh.home

	fmt.Fprintf(sh.a.out, "%s\n%s\n", s.Greeting(), s.Clock())
	cmd, err := sh.command(string(nav.Home), "add", "history", "request", "logout")
	if err != nil {
		return err
	}

	switch cmd {
	case "history":
		return s.GoHistory()
	case "request":
		return s.GoRequest()
	case "logout":
		return s.Logout(ctx)
	}

	if s.Form.Name == "" {
		s.Form.Name = s.Name()
	}
	f := &s.Form
	if err := sh.a.prompt.Fill(
		prompt.Field{Label: "Name", Dest: &f.Name, Default: f.Name},
		prompt.Field{Label: "Tower", Dest: &f.Tower, Default: f.Tower},
		prompt.Field{Label: "Flat", Dest: &f.Flat, Default: f.Flat},
		prompt.Field{Label: "Japa Name", Dest: &f.JapaName, Default: f.JapaName},
		prompt.Field{Label: "Japa Count", Dest: &f.JapaCount, Default: f.JapaCount},
	); err != nil {
		return err
	}
	o, err := s.Submit(ctx)
	printOutcome(sh.a.out, o)
	return err
}

func (sh *shell) history(ctx context.Context, p nav.Params) error {
	s := screen.NewHistory(sh.a.deps(), p)
	fmt.Fprintln(sh.a.out, "Loading history...")
	if _, err := s.Mount(ctx); err != nil {
		return err
	}
	printHistory(sh.a, s)

	if _, err := sh.command(string(nav.History), "back"); err != nil {
		return err
	}
	s.Back()
	return nil
}

func (sh *shell) request(ctx context.Context) error {
	s := screen.NewRequestForm(sh.a.deps())
	s.Mount(ctx)

	fmt.Fprintln(sh.a.out, "Request Form")
	for {
		cmd, err := sh.command(string(nav.RequestForm), "fill", "back")
		if err != nil {
			return err
		}
		if cmd == "back" {
			s.Back()
			return nil
		}

		f := &s.Form
		var date string
		if err := sh.a.prompt.Fill(
			prompt.Field{Label: "Name", Dest: &f.Name, Default: f.Name},
			prompt.Field{Label: "Phone", Dest: &f.Phone, Default: f.Phone},
			prompt.Field{Label: "Tower", Dest: &f.Tower, Default: f.Tower},
			prompt.Field{Label: "Flat", Dest: &f.Flat, Default: f.Flat},
			prompt.Field{Label: "Pooja", Dest: &f.Pooja, Default: f.Pooja},
			prompt.Field{Label: "Date (DD-MM-YYYY)", Dest: &date, Default: f.Date},
		); err != nil {
			return err
		}
		s.SetDate(date)

		o, err := s.Submit(ctx)
		printOutcome(sh.a.out, o)
		if err != nil || o.OK() {
			return err
		}
	}
}

func (sh *shell) success(p nav.Params) error {
	s := screen.NewSuccess(sh.a.deps(), p)
	fmt.Fprintln(sh.a.out, "Request Submitted\nYour request was submitted successfully!")
	if _, err := sh.command(string(nav.Success), "home"); err != nil {
		return err
	}
	return s.GoHome()
}
