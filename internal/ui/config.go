package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anagarval/minerva/internal/config"
	"github.com/anagarval/minerva/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  minerva config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(cfg)

	// Ask if user wants to edit
	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(os.Stdin)

	cfg.Schedule.DayStart = promptInt(reader, "Day start hour", cfg.Schedule.DayStart)
	cfg.Schedule.DayEnd = promptInt(reader, "Day end hour", cfg.Schedule.DayEnd)
	cfg.Schedule.MaxStudyHoursPerDay = promptFloat(reader, "Max study hours per day", cfg.Schedule.MaxStudyHoursPerDay)
	cfg.Schedule.PreferredRestMinutes = promptInt(reader, "Preferred rest minutes between blocks", cfg.Schedule.PreferredRestMinutes)
	cfg.Schedule.SubjectPreferences = promptValue(reader, "Subject preferences (free text, empty for none)", cfg.Schedule.SubjectPreferences)
	cfg.LLM.Provider = promptValue(reader, "LLM provider (empty for local planner)", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(reader, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(reader, "LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.LLM.APIKeyEnv = promptValue(reader, "API key environment variable", cfg.LLM.APIKeyEnv)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[schedule]")
	fmt.Printf("  day_start               = %d\n", cfg.Schedule.DayStart)
	fmt.Printf("  day_end                 = %d\n", cfg.Schedule.DayEnd)
	fmt.Printf("  max_study_hours_per_day = %g\n", cfg.Schedule.MaxStudyHoursPerDay)
	fmt.Printf("  preferred_rest_minutes  = %d\n", cfg.Schedule.PreferredRestMinutes)
	if cfg.Schedule.SubjectPreferences != "" {
		fmt.Printf("  subject_preferences     = %s\n", cfg.Schedule.SubjectPreferences)
	}
	fmt.Println("\n[llm]")
	fmt.Printf("  provider                = %s\n", cfg.LLM.Provider)
	fmt.Printf("  model                   = %s\n", cfg.LLM.Model)
	fmt.Printf("  base_url                = %s\n", cfg.LLM.BaseURL)
	fmt.Printf("  api_key_env             = %s\n", cfg.LLM.APIKeyEnv)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path                 = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[ui]")
	fmt.Printf("  theme                   = %s\n", cfg.UI.Theme)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		input := promptValue(reader, label, strconv.Itoa(current))
		value, err := strconv.Atoi(input)
		if err != nil {
			fmt.Printf("  Not a number: %q\n", input)
			continue
		}
		return value
	}
}

func promptFloat(reader *bufio.Reader, label string, current float64) float64 {
	for {
		input := promptValue(reader, label, strconv.FormatFloat(current, 'g', -1, 64))
		value, err := strconv.ParseFloat(input, 64)
		if err != nil {
			fmt.Printf("  Not a number: %q\n", input)
			continue
		}
		return value
	}
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
