package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hluleko/smart-travel-planner/internal/domain"
)

var (
	errNotLoggedIn    = errors.New("not logged in; run 'planner login' first")
	errSessionExpired = errors.New("session expired; run 'planner login' again")
)

type appKey struct{}

func appFrom(cmd *cobra.Command) *app {
	return cmd.Context().Value(appKey{}).(*app)
}

// newRootCmd builds the command tree. The returned func releases whatever the
// executed command opened and must be called after Execute.
func newRootCmd() (*cobra.Command, func() error) {
	var a *app

	root := &cobra.Command{
		Use:          "planner",
		Short:        "Smart travel planner client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = newApp(cmd.Context())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
	}

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newProfileCmd(),
		newWarnCmd(),
		newDestinationsCmd(),
		newAdminCmd(),
	)

	cleanup := func() error {
		if a == nil {
			return nil
		}
		return a.close()
	}
	return root, cleanup
}

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			ctx := cmd.Context()

			resp, err := a.client.LoginUser(ctx, domain.Credentials{Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			a.session.SetToken(resp.Token)
			a.session.SetUserID(resp.ResolvedUserID())
			if resp.User != nil {
				a.session.SetUser(*resp.User)
			} else if err := a.session.FetchUser(ctx, a.client); err != nil {
				_ = a.save(ctx)
				return err
			}
			if err := a.save(ctx); err != nil {
				return err
			}

			name := email
			if u := a.session.User(); u != nil && u.Username != "" {
				name = u.Username
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			a.session.Logout()
			if err := a.save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user's profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			user, err := a.requireLogin(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Username:  %s\n", user.Username)
			fmt.Fprintf(out, "Email:     %s\n", user.Email)
			if user.Role != "" {
				fmt.Fprintf(out, "Role:      %s\n", user.Role)
			}
			fmt.Fprintf(out, "Allergies: %s\n", allergyNames(domain.NamedAllergies(user.Allergies)))
			if exp, ok := a.session.TokenExpiry(); ok {
				fmt.Fprintf(out, "Session expires %s\n", exp.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newWarnCmd() *cobra.Command {
	var (
		location  string
		allergies []string
		seed      int64
	)
	cmd := &cobra.Command{
		Use:   "warn",
		Short: "Simulate allergy warnings for a location",
		Long: `Simulate allergy warnings for a location and match them against
the given --allergy values, or against the signed-in user's allergies.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)

			userAllergies, err := allergiesFromFlags(allergies)
			if err != nil {
				return err
			}
			if len(userAllergies) == 0 && a.session.IsLoggedIn() {
				user, err := a.requireLogin(cmd.Context())
				if err != nil {
					return err
				}
				userAllergies = domain.NamedAllergies(user.Allergies)
			}

			printWarning(cmd.OutOrStdout(), location, a.generator(seed).Generate(location), userAllergies)
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "location name")
	cmd.Flags().StringSliceVar(&allergies, "allergy", nil, "allergy to match (repeatable)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses WARNING_SEED or a random seed)")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newDestinationsCmd() *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "destinations",
		Short: "Simulate allergy warnings for each saved destination",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			ctx := cmd.Context()
			user, err := a.requireLogin(ctx)
			if err != nil {
				return err
			}

			dests, err := a.client.GetDestinationsByUserID(ctx, a.session.Token(), a.session.UserID())
			if err != nil {
				return fmt.Errorf("list destinations: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(dests) == 0 {
				fmt.Fprintln(out, "No saved destinations.")
				return nil
			}

			gen := a.generator(seed)
			allergies := domain.NamedAllergies(user.Allergies)
			for _, d := range dests {
				printWarning(out, d.Name, gen.Generate(d.Name), allergies)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses WARNING_SEED or a random seed)")
	return cmd
}

func newAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "Show platform totals (administrators only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			ctx := cmd.Context()
			if _, err := a.requireLogin(ctx); err != nil {
				return err
			}
			if err := a.session.FetchAdminData(ctx, a.client); err != nil {
				return fmt.Errorf("admin: %w", err)
			}
			stats, err := a.client.GetAdminStats(ctx, a.session.Token())
			if err != nil {
				return fmt.Errorf("admin stats: %w", err)
			}

			snap := a.session.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Users:        %d (%d listed)\n", stats.TotalUsers, len(snap.AdminUsers))
			fmt.Fprintf(out, "Trips:        %d (%d listed)\n", stats.TotalTrips, len(snap.AdminTrips))
			fmt.Fprintf(out, "Destinations: %d\n", stats.TotalDestinations)
			fmt.Fprintf(out, "Reviews:      %d\n", stats.TotalReviews)
			return nil
		},
	}
}

func allergiesFromFlags(names []string) ([]domain.UserAllergy, error) {
	allergies := make([]domain.UserAllergy, 0, len(names))
	for _, name := range names {
		ua, err := domain.NewUserAllergy(name)
		if err != nil {
			return nil, fmt.Errorf("--allergy %q: %w", name, err)
		}
		allergies = append(allergies, ua)
	}
	return allergies, nil
}

func allergyNames(allergies []domain.UserAllergy) string {
	if len(allergies) == 0 {
		return "none"
	}
	names := make([]string, len(allergies))
	for i, ua := range allergies {
		names[i] = ua.Name
	}
	return strings.Join(names, ", ")
}

func printWarning(out io.Writer, location string, report *domain.LocationWarningReport, allergies []domain.UserAllergy) {
	message, ok := domain.Format(report)
	if !ok {
		fmt.Fprintf(out, "No allergy warnings for %s.\n", location)
		return
	}
	fmt.Fprintln(out, message)

	matches := domain.Match(allergies, report)
	for _, m := range matches {
		fmt.Fprintf(out, "  ! matches your %s allergy: %s (%s)\n", m.UserAllergy.Name, m.WarningAllergen, m.Severity)
	}
	if top, ok := domain.HighestSeverity(matches); ok {
		fmt.Fprintf(out, "  highest severity: %s\n", top)
	}
}
