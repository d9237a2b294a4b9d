package cmd

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as an administrator",
	Long: `Sign in with email and password. The session is saved to session.file
and reused by later commands until it expires or you log out.

The password is read from standard input when --password is not given.

Examples:
  dolabbctl login --email admin@dolabb.com
  echo "$PASS" | dolabbctl login --email admin@dolabb.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(nil)
		if err != nil {
			return err
		}
		if err := a.guard.Logout(commandContext(cmd)); err != nil {
			return err
		}
		printer.Success("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in administrator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		cred := a.guard.Current()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return printer.JSON(cred.Admin)
		}
		printer.Print("%s <%s>", cred.Admin.Name, cred.Admin.Email)
		if cred.Admin.Role != "" {
			printer.Print("role: %s", cred.Admin.Role)
		}
		printer.Print("signed in: %s", cred.SavedAt.Local().Format("Jan 2, 2006 15:04"))
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new administrator account",
	Long: `Register a new administrator. The backend emails a one-time password;
finish with 'dolabbctl verify-otp'.`,
	Args: cobra.NoArgs,
	RunE: runSignup,
}

var verifyOTPCmd = &cobra.Command{
	Use:   "verify-otp",
	Short: "Confirm an emailed one-time password and sign in",
	Args:  cobra.NoArgs,
	RunE:  runVerifyOTP,
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password",
	Short: "Email a password reset code",
	Args:  cobra.NoArgs,
	RunE:  runForgotPassword,
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password with an emailed reset code",
	Args:  cobra.NoArgs,
	RunE:  runResetPassword,
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, signupCmd, verifyOTPCmd, forgotPasswordCmd, resetPasswordCmd)

	loginCmd.Flags().String("email", "", "administrator email")
	loginCmd.Flags().String("password", "", "password (read from stdin when omitted)")
	_ = loginCmd.MarkFlagRequired("email")

	whoamiCmd.Flags().Bool("json", false, "output as JSON")

	signupCmd.Flags().String("name", "", "full name")
	signupCmd.Flags().String("email", "", "email address")
	signupCmd.Flags().String("password", "", "password (read from stdin when omitted)")
	_ = signupCmd.MarkFlagRequired("name")
	_ = signupCmd.MarkFlagRequired("email")

	verifyOTPCmd.Flags().String("email", "", "email the code was sent to")
	verifyOTPCmd.Flags().String("otp", "", "one-time password")
	verifyOTPCmd.Flags().Bool("resend", false, "send a new code instead of verifying")
	_ = verifyOTPCmd.MarkFlagRequired("email")

	forgotPasswordCmd.Flags().String("email", "", "account email")
	forgotPasswordCmd.Flags().Bool("resend", false, "send the reset code again")
	_ = forgotPasswordCmd.MarkFlagRequired("email")

	resetPasswordCmd.Flags().String("email", "", "account email")
	resetPasswordCmd.Flags().String("otp", "", "reset code")
	resetPasswordCmd.Flags().String("password", "", "new password (read from stdin when omitted)")
	_ = resetPasswordCmd.MarkFlagRequired("email")
	_ = resetPasswordCmd.MarkFlagRequired("otp")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	if err := a.guard.RequireAnonymous(); err != nil {
		return err
	}

	email, _ := cmd.Flags().GetString("email")
	password, err := secretFlag(cmd, "password", "Password")
	if err != nil {
		return err
	}

	cred, err := a.guard.Login(commandContext(cmd), strings.TrimSpace(email), password)
	if err != nil {
		return err
	}
	printer.Success("Logged in as %s", displayName(cred.Admin))
	printer.PrintHints("login")
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	if err := a.guard.RequireAnonymous(); err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password, err := secretFlag(cmd, "password", "Password")
	if err != nil {
		return err
	}
	p := client.SignupPayload{Name: name, Email: email, Password: password, ConfirmPassword: password}
	res, err := a.api.Auth().Signup(commandContext(cmd), p)
	if err != nil {
		return err
	}
	if !res.Success {
		return authRefused(res, "Signup failed")
	}
	printer.Success("%s", cmp.Or(res.Message, "Account created. Check your email for the verification code."))
	printer.Info("Next: dolabbctl verify-otp --email %s --otp <code>", email)
	return nil
}

func runVerifyOTP(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	email, _ := cmd.Flags().GetString("email")

	if resend, _ := cmd.Flags().GetBool("resend"); resend {
		res, err := a.api.Auth().ResendOTP(ctx, email)
		if err != nil {
			return err
		}
		if !res.Success {
			return authRefused(res, "Could not resend the code")
		}
		printer.Success("%s", cmp.Or(res.Message, "A new code has been sent to "+email))
		return nil
	}

	otp, _ := cmd.Flags().GetString("otp")
	if otp == "" {
		return flagError("--otp is required unless --resend is given")
	}
	if err := a.guard.RequireAnonymous(); err != nil {
		return err
	}
	cred, err := a.guard.VerifyOTP(ctx, email, strings.TrimSpace(otp))
	if err != nil {
		return err
	}
	printer.Success("Verified and logged in as %s", displayName(cred.Admin))
	return nil
}

func runForgotPassword(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	email, _ := cmd.Flags().GetString("email")
	send := a.api.Auth().ForgotPassword
	if resend, _ := cmd.Flags().GetBool("resend"); resend {
		send = a.api.Auth().ResendResetOTP
	}
	res, err := send(commandContext(cmd), email)
	if err != nil {
		return err
	}
	if !res.Success {
		return authRefused(res, "Could not send the reset code")
	}
	printer.Success("%s", cmp.Or(res.Message, "Reset code sent to "+email))
	printer.Info("Next: dolabbctl reset-password --email %s --otp <code>", email)
	return nil
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	email, _ := cmd.Flags().GetString("email")
	otp, _ := cmd.Flags().GetString("otp")
	password, err := secretFlag(cmd, "password", "New password")
	if err != nil {
		return err
	}
	p := client.ResetPasswordPayload{Email: email, OTP: otp, NewPassword: password, ConfirmPassword: password}
	res, err := a.api.Auth().ResetPassword(commandContext(cmd), p)
	if err != nil {
		return err
	}
	if !res.Success {
		return authRefused(res, "Password reset failed")
	}
	printer.Success("%s", cmp.Or(res.Message, "Password updated. You can now log in."))
	return nil
}

// secretFlag returns the flag value, or reads one line from stdin.
func secretFlag(cmd *cobra.Command, name, prompt string) (string, error) {
	if v, _ := cmd.Flags().GetString(name); v != "" {
		return v, nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", flagError("--%s is required", name)
	}
	return line, nil
}

func authRefused(res *client.AuthResponse, fallback string) error {
	return &domain.ServerError{Status: http.StatusOK, Message: cmp.Or(res.Error, res.Message, fallback)}
}

func displayName(a client.Admin) string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}
