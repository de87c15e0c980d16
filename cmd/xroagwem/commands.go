package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/colorprofile"
	"github.com/dodorz/xroagwem/internal/config"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// printConfigPath prints the path to the config file
func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

// editConfigFile opens the config file in $EDITOR
func editConfigFile() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	// Ensure config file exists (create default if needed)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", configPath)
		if err := config.WriteDefaultConfig(configPath); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found. Please set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	// Catch mistakes while the file is still fresh in mind.
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	if res := config.ValidateConfig(cfg); res.HasErrors() || res.HasWarnings() {
		printValidation(os.Stdout, res)
	}
	return nil
}

func findEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}
	for _, e := range []string{"vim", "vi", "nano", "emacs"} {
		if _, err := exec.LookPath(e); err == nil {
			return e
		}
	}
	return ""
}

// resetConfigToDefaults resets the configuration file to default settings
func resetConfigToDefaults() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Warning: This will overwrite your existing configuration at:\n")
		fmt.Printf("  %s\n\n", configPath)
		fmt.Printf("Are you sure you want to reset to defaults? (yes/no): ")

		var response string
		_, _ = fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))

		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := config.WriteDefaultConfig(configPath); err != nil {
		return err
	}

	fmt.Printf("Configuration reset to defaults\n")
	fmt.Printf("  Location: %s\n", configPath)
	fmt.Println("\nYou can customize it with: xroagwem config edit")
	return nil
}

// showConfig writes the effective configuration in the given format.
func showConfig(w io.Writer, format string) error {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		return err
	}
	config.ApplyOverrides(config.Overrides{
		ThemeName: themeName,
		Gap:       gap,
		Border:    border,
		NoBar:     noBar,
		Debug:     debugMode,
	}, cfg)
	return encodeConfig(w, cfg, format)
}

// encodeConfig writes cfg as TOML, YAML or JSON. YAML and JSON keys match
// the TOML keys of the config file.
func encodeConfig(w io.Writer, cfg *config.UserConfig, format string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	switch strings.ToLower(format) {
	case "", "toml":
		_, err = w.Write(data)
		return err
	case "yaml", "yml", "json":
	default:
		return fmt.Errorf("unknown format %q, expected toml, yaml or json", format)
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to convert config: %w", err)
	}
	if strings.ToLower(format) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return err
	}
	return enc.Close()
}

// validateConfigFile checks path, or the user's config file if path is
// empty, and reports every issue found.
func validateConfigFile(w io.Writer, path string) error {
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("could not determine config path: %w", err)
		}
		path = p
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	res := config.ValidateConfig(cfg)
	printValidation(w, res)
	if res.HasErrors() {
		return fmt.Errorf("%s has %d error(s)", path, len(res.Errors))
	}
	return nil
}

func printValidation(w io.Writer, res *config.ValidationResult) {
	out := colorprofile.NewWriter(w, os.Environ())
	errStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	for _, issue := range res.Errors {
		fmt.Fprintf(out, "%s %s.%s: %s\n", errStyle.Render("error"), issue.Field, issue.Key, issue.Message)
	}
	for _, issue := range res.Warnings {
		fmt.Fprintf(out, "%s %s.%s: %s\n", warnStyle.Render("warning"), issue.Field, issue.Key, issue.Message)
	}
	if !res.HasErrors() && !res.HasWarnings() {
		fmt.Fprintln(out, okStyle.Render("Configuration is valid"))
	}
}

// loadConfigOrDefault loads the user config, falling back to defaults.
func loadConfigOrDefault() *config.UserConfig {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Using default keybindings...")
		return config.DefaultConfig()
	}
	return userConfig
}

// listKeybindings prints all configured keybindings in a pretty table
func listKeybindings() error {
	userConfig := loadConfigOrDefault()
	registry := config.NewKeybindRegistry(userConfig)

	sections := config.GetKeybindings(registry)
	if pointer := config.GetPointerBindings(userConfig); len(pointer.Bindings) > 0 {
		sections = append(sections, pointer)
	}
	printKeybindingsTable(colorprofile.NewWriter(os.Stdout, os.Environ()), sections)
	return nil
}

// printKeybindingsTable prints keybindings in a pretty table format
func printKeybindingsTable(w io.Writer, sections []config.KeybindingSection) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Render("xroagwem Keybindings"))
	fmt.Fprintln(w)

	for _, section := range sections {
		if len(section.Bindings) == 0 {
			continue
		}
		rows := make([][]string, 0, len(section.Bindings))
		for _, b := range section.Bindings {
			rows = append(rows, []string{b.Key, b.Description})
		}

		fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Render(section.Title))
		fmt.Fprintln(w, newTable([]string{"Keys", "Action"}, rows).Render())
		fmt.Fprintln(w)
	}
}

func newTable(headers []string, rows [][]string) *table.Table {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().
		Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// listCustomKeybindings shows only the keybindings that differ from defaults
func listCustomKeybindings() error {
	userConfig := loadConfigOrDefault()
	w := colorprofile.NewWriter(os.Stdout, os.Environ())

	rows := customizationRows(userConfig)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No customized keybindings. All keybindings are using defaults.")
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Render("Customized Keybindings"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, newTable([]string{"Section", "Action", "Default", "Custom"}, rows).Render())
	fmt.Fprintln(w)
	return nil
}

// customizationRows lists every rebound action with its default and custom
// keys, sorted by section.
func customizationRows(userConfig *config.UserConfig) [][]string {
	defaults := bindingTables(config.DefaultConfig())
	custom := bindingTables(userConfig)
	changed := config.CustomizedActions(userConfig)

	var rows [][]string
	for _, section := range slices.Sorted(maps.Keys(changed)) {
		for _, action := range changed[section] {
			rows = append(rows, []string{
				section,
				action,
				keyList(defaults[section][action]),
				keyList(custom[section][action]),
			})
		}
	}
	return rows
}

func bindingTables(cfg *config.UserConfig) map[string]map[string][]string {
	return map[string]map[string][]string{
		"window":     cfg.Keybindings.Window,
		"workspaces": cfg.Keybindings.Workspaces,
		"layout":     cfg.Keybindings.Layout,
		"floating":   cfg.Keybindings.Floating,
		"system":     cfg.Keybindings.System,
	}
}

func keyList(keys []string) string {
	if len(keys) == 0 {
		return "(unbound)"
	}
	return strings.Join(keys, ", ")
}
