package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/atinyakov/JapaKeeper/internal/client/prompt"
	"github.com/atinyakov/JapaKeeper/internal/nav"
	"github.com/atinyakov/JapaKeeper/internal/screen"
)

var errNotLoggedIn = errors.New("not logged in, run `client login` first")

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), a)
		},
	}
}

func newLoginCmd(a *app) *cobra.Command {
	var input, pin string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with an email or phone number and a PIN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := askMissing(a.prompt,
				prompt.Field{Label: "Email or phone", Dest: &input},
				prompt.Field{Label: "PIN", Dest: &pin},
			); err != nil {
				return err
			}

			s := screen.NewLogin(a.at(nav.Login, nav.Params{}))
			o, err := s.Submit(cmd.Context(), input, pin)
			if err != nil {
				return err
			}
			printOutcome(a.out, o)
			if err := outcomeErr(o); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", a.nav.Current().Params.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "email or phone number")
	cmd.Flags().StringVar(&pin, "pin", "", "4 digit PIN")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var f screen.RegistrationForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.ConfirmPassword == "" && f.Password != "" && cmd.Flags().Changed("password") {
				f.ConfirmPassword = f.Password
			}
			if err := askMissing(a.prompt,
				prompt.Field{Label: "Name", Dest: &f.Name},
				prompt.Field{Label: "Email", Dest: &f.Email},
				prompt.Field{Label: "Phone", Dest: &f.Phone},
				prompt.Field{Label: "PIN", Dest: &f.Password},
				prompt.Field{Label: "Confirm PIN", Dest: &f.ConfirmPassword},
			); err != nil {
				return err
			}

			s := screen.NewRegister(a.at(nav.Register, nav.Params{}))
			o, err := s.Submit(cmd.Context(), f)
			if err != nil {
				return err
			}
			printOutcome(a.out, o)
			if err := outcomeErr(o); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Account created for %s\n", f.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Name, "name", "", "full name")
	cmd.Flags().StringVar(&f.Email, "email", "", "email address")
	cmd.Flags().StringVar(&f.Phone, "phone", "", "10 digit phone number")
	cmd.Flags().StringVar(&f.Password, "password", "", "4 digit PIN")
	return cmd
}

func newSubmitCmd(a *app) *cobra.Command {
	var f screen.RecordForm
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record a Japa count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, ok := a.store.Load(ctx)
			if !ok {
				return errNotLoggedIn
			}
			if f.Name == "" {
				f.Name = sess.Name
			}

			s := screen.NewHome(a.at(nav.Home, nav.Params{Name: sess.Name, ID: sess.ID}))
			s.Mount(ctx)
			s.Form = f
			o, err := s.Submit(ctx)
			if err != nil {
				return err
			}
			printOutcome(a.out, o)
			if err := outcomeErr(o); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Record saved.")
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Name, "name", "", "name on the record (defaults to the logged-in user)")
	cmd.Flags().StringVar(&f.Tower, "tower", "", "tower")
	cmd.Flags().StringVar(&f.Flat, "flat", "", "flat")
	cmd.Flags().StringVar(&f.JapaName, "japa-name", "", "name of the Japa")
	cmd.Flags().StringVar(&f.JapaCount, "count", "", "number of rounds")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List submitted Japa records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, ok := a.store.Load(ctx)
			if !ok {
				return errNotLoggedIn
			}
			p := nav.Params{ID: sess.ID}
			s := screen.NewHistory(a.at(nav.History, p), p)
			if _, err := s.Mount(ctx); err != nil {
				return err
			}
			printHistory(a, s)
			return nil
		},
	}
}

func newRequestCmd(a *app) *cobra.Command {
	var f screen.RequestFields
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Submit a pooja service request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s := screen.NewRequestForm(a.at(nav.RequestForm, nav.Params{}))
			s.Mount(ctx)
			s.Form = f
			s.SetDate(f.Date)
			o, err := s.Submit(ctx)
			if err != nil {
				return err
			}
			printOutcome(a.out, o)
			if err := outcomeErr(o); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Your request was submitted successfully!")
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Name, "name", "", "name")
	cmd.Flags().StringVar(&f.Phone, "phone", "", "10 digit phone number")
	cmd.Flags().StringVar(&f.Tower, "tower", "", "tower")
	cmd.Flags().StringVar(&f.Flat, "flat", "", "flat")
	cmd.Flags().StringVar(&f.Pooja, "pooja", "", "pooja details")
	cmd.Flags().StringVar(&f.Date, "date", "", "date as DD-MM-YYYY")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := screen.NewHome(a.at(nav.Home, nav.Params{}))
			if err := s.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, ok := a.store.Load(cmd.Context())
			if !ok {
				return errNotLoggedIn
			}
			fmt.Fprintf(a.out, "%s (%s)\n", sess.Name, sess.ID)
			return nil
		},
	}
}

// askMissing prompts only for the fields that are still empty.
func askMissing(p *prompt.Prompter, fields ...prompt.Field) error {
	var missing []prompt.Field
	for _, f := range fields {
		if *f.Dest == "" {
			missing = append(missing, f)
		}
	}
	return p.Fill(missing...)
}

func printHistory(a *app, s *screen.History) {
	state, records := s.View()
	if state != screen.HistoryLoaded {
		fmt.Fprintln(a.out, "No history records available.")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE & TIME\tNAME\tTOWER\tFLAT\tJAPA NAME\tCOUNT")
	for i, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			i+1, screen.FormatDate(r.Date), r.Name, r.Tower, r.Flat, r.JapaName, r.JapaCount)
	}
	_ = tw.Flush()
}
