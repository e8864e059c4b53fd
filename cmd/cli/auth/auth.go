package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jtallman/projtrack/cmd/cli/config"
	"github.com/spf13/cobra"
)

// InitAuth registers auth-related CLI commands (signup, login) on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd(), loginCmd())
}

type tokenResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// signupCmd registers a new account and stores the returned JWT locally.
func signupCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account on the Projects Tracker API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" || password == "" {
				return fmt.Errorf("--name, --email and --password are required")
			}

			var out tokenResponse
			payload := map[string]string{"name": name, "email": email, "password": password}
			if err := callJSONEndpoint(http.DefaultClient, "/auth/signup", payload, &out); err != nil {
				return fmt.Errorf("failed to sign up: %w", err)
			}
			if out.Token == "" {
				return fmt.Errorf("signup succeeded but no token returned")
			}

			if err := config.SaveToken(out.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Printf("Account created for %s. Token stored locally.\n", out.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (minimum 6 characters)")

	return cmd
}

// loginCmd authenticates and stores the returned JWT locally.
func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Projects Tracker API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			var out tokenResponse
			payload := map[string]string{"email": email, "password": password}
			if err := callJSONEndpoint(http.DefaultClient, "/auth/login", payload, &out); err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if out.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(out.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Println("Login successful. Token stored locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")

	return cmd
}

func callJSONEndpoint(client *http.Client, path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", config.APIURL()+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return err
		}
	}

	return nil
}
