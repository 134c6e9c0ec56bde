package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"njaboot/internal/domain"
	"njaboot/internal/format"

	"github.com/spf13/cobra"
)

var (
	passwordFlag string

	regPassword  string
	regFirstName string
	regLastName  string
	regPhone     string
	regAddress   string
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and keep the session on this device",
	Long: `Signs in against the auth API. The password is read from --password
or, when omitted, from the first line of standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create a customer account and sign in",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the signed-in user on this device",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and loyalty tier",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&passwordFlag, "password", "p", "", "Password (read from stdin when empty)")

	registerCmd.Flags().StringVarP(&regPassword, "password", "p", "", "Password (read from stdin when empty)")
	registerCmd.Flags().StringVar(&regFirstName, "first-name", "", "First name (required)")
	registerCmd.Flags().StringVar(&regLastName, "last-name", "", "Last name (required)")
	registerCmd.Flags().StringVar(&regPhone, "phone", "", "Phone number")
	registerCmd.Flags().StringVar(&regAddress, "address", "", "Delivery address")
	_ = registerCmd.MarkFlagRequired("first-name")
	_ = registerCmd.MarkFlagRequired("last-name")
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := resolvePassword(cmd.InOrStdin(), passwordFlag)
	if err != nil {
		return err
	}
	u, err := env.session.Login(cmd.Context(), args[0], password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Bienvenue, %s !\n", u.FullName())
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	password, err := resolvePassword(cmd.InOrStdin(), regPassword)
	if err != nil {
		return err
	}
	u, err := env.session.Register(cmd.Context(), domain.Registration{
		Email:     strings.TrimSpace(args[0]),
		Password:  password,
		FirstName: strings.TrimSpace(regFirstName),
		LastName:  strings.TrimSpace(regLastName),
		Phone:     strings.TrimSpace(regPhone),
		Address:   strings.TrimSpace(regAddress),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Compte créé. Bienvenue, %s !\n", u.FullName())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	env.session.Logout(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), "Déconnecté.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	u, ok := env.session.User()
	if !ok {
		fmt.Fprintln(out, "Non connecté.")
		return nil
	}

	role := "Client"
	if u.Role == domain.RoleManager {
		role = "Gérant"
	}
	fmt.Fprintf(out, "%s <%s>\n", titleStyle.Render(u.FullName()), u.Email)
	fmt.Fprintf(out, "Rôle : %s\n", role)
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(out, "Membre depuis le %s\n", format.Date(u.CreatedAt))
	}
	if u.Role == domain.RoleCustomer {
		printTier(out, u.LoyaltyPoints)
	}
	return nil
}

// resolvePassword prefers the flag value and falls back to one line of in.
func resolvePassword(in io.Reader, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password required")
	}
	return line, nil
}
