package projects

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jtallman/projtrack/cmd/cli/config"
	"github.com/jtallman/projtrack/cmd/cli/output"
	"github.com/spf13/cobra"
)

type project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	WebsiteURL  string `json:"websiteUrl"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// ==========================
// Init Projects
// ==========================
func InitProjects(rootCmd *cobra.Command) {

	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}

	projectsCmd.AddCommand(
		listCmd(),
		createCmd(),
		getCmd(),
		updateCmd(),
		deleteCmd(),
	)

	rootCmd.AddCommand(projectsCmd)
}

// ==========================
// LIST
// ==========================
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Projects []project `json:"projects"`
			}
			if err := apiRequest("GET", "/projects", nil, &out); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(out.Projects))
			for _, p := range out.Projects {
				rows = append(rows, []interface{}{p.ID, p.Name, p.Status, p.WebsiteURL, p.CreatedAt})
			}
			output.RenderTable([]string{"ID", "Name", "Status", "Website", "Created"}, rows)
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createCmd() *cobra.Command {
	var name, description, websiteURL, status string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || description == "" || websiteURL == "" {
				return fmt.Errorf("--name, --description and --website are required")
			}

			payload := map[string]string{
				"name":        name,
				"description": description,
				"websiteUrl":  websiteURL,
			}
			if status != "" {
				payload["status"] = status
			}

			var out struct {
				Project project `json:"project"`
			}
			if err := apiRequest("POST", "/projects", payload, &out); err != nil {
				return err
			}

			fmt.Printf("Created project %s (%s)\n", out.Project.Name, out.Project.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&websiteURL, "website", "", "Project website URL")
	cmd.Flags().StringVar(&status, "status", "", "Project status (default planning)")

	return cmd
}

// ==========================
// GET
// ==========================
func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Project project `json:"project"`
			}
			if err := apiRequest("GET", "/projects/"+args[0], nil, &out); err != nil {
				return err
			}

			p := out.Project
			output.RenderTable(
				[]string{"Field", "Value"},
				[][]interface{}{
					{"ID", p.ID},
					{"Name", p.Name},
					{"Description", p.Description},
					{"Website", p.WebsiteURL},
					{"Status", p.Status},
					{"Created", p.CreatedAt},
					{"Updated", p.UpdatedAt},
				},
			)
			return nil
		},
	}
}

// ==========================
// UPDATE (only the flags you pass are sent)
// ==========================
func updateCmd() *cobra.Command {
	var name, description, websiteURL, status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{}
			if name != "" {
				payload["name"] = name
			}
			if description != "" {
				payload["description"] = description
			}
			if websiteURL != "" {
				payload["websiteUrl"] = websiteURL
			}
			if status != "" {
				payload["status"] = status
			}
			if len(payload) == 0 {
				return fmt.Errorf("nothing to update; pass at least one of --name, --description, --website, --status")
			}

			var out struct {
				Message string `json:"message"`
			}
			if err := apiRequest("PUT", "/projects/"+args[0], payload, &out); err != nil {
				return err
			}

			fmt.Println(out.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New project name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&websiteURL, "website", "", "New website URL")
	cmd.Flags().StringVar(&status, "status", "", "New status")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Message string `json:"message"`
			}
			if err := apiRequest("DELETE", "/projects/"+args[0], nil, &out); err != nil {
				return err
			}

			fmt.Println(out.Message)
			return nil
		},
	}
}

func apiRequest(method, path string, payload interface{}, out interface{}) error {
	token, err := config.ReadToken()
	if err != nil {
		return fmt.Errorf("please login first (projtrack login)")
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return err
		}
	}

	return nil
}
