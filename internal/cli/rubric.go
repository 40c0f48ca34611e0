package cli

import (
	"fmt"

	"github.com/ppiankov/lockscore/internal/rubric"
	"github.com/spf13/cobra"
)

// rubricCmd represents the rubric command
var rubricCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Print the scoring rubric as YAML",
	Long: `Rubric prints the effective scoring rubric: category weights and keywords,
lock-in mechanisms, penalty multipliers, critical mechanisms and tier
thresholds. Save the output, edit it and pass it back with --rubric to
score against a custom rubric.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		r, err := rubric.Load(cfg.Rubric.Path)
		if err != nil {
			return err
		}
		data, err := r.YAML()
		if err != nil {
			return fmt.Errorf("marshal rubric: %w", err)
		}
		fmt.Printf("# fingerprint: %s\n", r.Fingerprint())
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rubricCmd)
}
