package cmd

import (
	"github.com/spf13/cobra"

	"github.com/careerpilot/careerpilot/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "careerpilot",
	Short: "AI career guidance in the terminal",
	Long: "careerpilot suggests job roles from your interests or experience, " +
		"tracks the skills each role needs and checks them with short AI-graded assessments.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the command tree. The returned error has not been printed;
// pass it to UserMessage for display.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides CAREERPILOT_DB env var)")
	flags.String("config", "", "Path to config file (overrides CAREERPILOT_CONFIG env var)")
	flags.String("provider", "", "LLM provider: gemini, openai, anthropic, openrouter or mock")
	flags.Bool("ephemeral", false, "Keep accounts and session in memory for this run only")

	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// openApp builds the application from the persistent flags. Callers must
// Close it.
func openApp(cmd *cobra.Command) (*app.App, error) {
	flags := cmd.Flags()
	dbPath, _ := flags.GetString("db")
	configPath, _ := flags.GetString("config")
	provider, _ := flags.GetString("provider")
	ephemeral, _ := flags.GetBool("ephemeral")

	return app.Open(cmd.Context(), app.Options{
		ConfigPath: configPath,
		DBPath:     dbPath,
		Provider:   provider,
		Ephemeral:  ephemeral,
	})
}
