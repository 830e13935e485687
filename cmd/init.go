package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/vscarantav/parallelscriptures/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .scriptures.yml config interactively",
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(runInit())
	},
}

// languagePairs offered by the wizard; any other upstream code can be
// set in the config file afterwards.
var languagePairs = []struct {
	Label        string
	Main, Second string
}{
	{"Spanish / English", "spa", "eng"},
	{"Portuguese / French", "por", "fra"},
	{"English / Spanish", "eng", "spa"},
	{"Portuguese / English", "por", "eng"},
}

func runInit() error {
	if _, err := os.Stat(cfgFile); err == nil {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("%s exists, overwrite", cfgFile),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	portPrompt := promptui.Prompt{
		Label:   "Port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("port must be in 1-65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	dataPrompt := promptui.Prompt{
		Label:   "Data directory",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return fmt.Errorf("data dir: %w", err)
	}

	pairItems := make([]string, len(languagePairs))
	for i, p := range languagePairs {
		pairItems[i] = p.Label
	}
	pairPrompt := promptui.Select{
		Label: "Chapter language pair (main / second)",
		Items: pairItems,
	}
	pairIdx, _, err := pairPrompt.Run()
	if err != nil {
		return fmt.Errorf("language pair: %w", err)
	}
	cfg.ChapterLangs = config.LangPair{
		Main:   languagePairs[pairIdx].Main,
		Second: languagePairs[pairIdx].Second,
	}

	secretPrompt := promptui.Prompt{
		Label:   "Secret key for account tokens",
		Default: cfg.SecretKey,
	}
	if cfg.SecretKey, err = secretPrompt.Run(); err != nil {
		return fmt.Errorf("secret key: %w", err)
	}

	if err := cfg.Save(cfgFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", cfgFile)
	fmt.Fprintln(os.Stderr, "Next: run `scriptures refresh-names` and then `scriptures serve`.")
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
