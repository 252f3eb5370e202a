package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"amphomeus/internal/client"
)

const defaultServer = "http://localhost:8080/api/v1"

var (
	serverURL string
	token     string
)

var rootCmd = &cobra.Command{
	Use:   "amphomeus",
	Short: "Keep a journal of dated entries with photos, videos and tags.",
	Long: `amphomeus talks to an amphomeus API server.

The server address and bearer token default to the AMPHOMEUS_SERVER and
AMPHOMEUS_TOKEN environment variables.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for amphomeus.

  Bash:
    $ source <(amphomeus completion bash)

  Zsh:
    $ amphomeus completion zsh > "${fpath[1]}/_amphomeus"

  Fish:
    $ amphomeus completion fish | source`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

func newAPI() (*client.API, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("server address must be set using --server or AMPHOMEUS_SERVER")
	}
	return client.NewAPI(serverURL, token), nil
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("AMPHOMEUS_SERVER", defaultServer), "API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("AMPHOMEUS_TOKEN"), "Bearer token issued by the auth provider")

	initJournalsCmd()
	initTagsCmd()
	initMediaCmd()

	rootCmd.AddCommand(
		completionCmd,
		journalsCmd,
		tagsCmd,
		mediaCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
