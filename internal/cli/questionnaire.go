package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/lockscore/internal/pipeline"
	"github.com/ppiankov/lockscore/internal/score"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	qJSON     string
	qMD       string
	listQuest bool
)

// questionnaireCmd represents the questionnaire command
var questionnaireCmd = &cobra.Command{
	Use:   "questionnaire <answers.yaml>",
	Short: "Score lock-in risk from questionnaire answers",
	Long: `Questionnaire scores vendor lock-in risk from direct answers to a fixed set
of questions instead of contract text. Answers are a YAML mapping of
question key to answer:

  vendor_name: Acme
  data_export: "Yes"
  price_increase: "No"
  support_hours: 24x7
  uptime_percentage: 99.9

Quote Yes and No so YAML keeps them as text. Use --list to print every
question with its key and options.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if listQuest {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runQuestionnaire,
}

func init() {
	rootCmd.AddCommand(questionnaireCmd)

	questionnaireCmd.Flags().BoolVar(&listQuest, "list", false, "print the questions and exit")
	questionnaireCmd.Flags().StringVar(&qJSON, "json", "", "output JSON path (- for stdout)")
	questionnaireCmd.Flags().StringVar(&qMD, "md", "", "output Markdown path")
	addAssessFlags(questionnaireCmd.Flags())
}

func runQuestionnaire(cmd *cobra.Command, args []string) error {
	if listQuest {
		printQuestions()
		return nil
	}

	answers, err := readAnswers(args[0])
	if err != nil {
		return err
	}

	cfg, p, _, err := setup(cmd)
	if err != nil {
		return err
	}

	a, err := p.AssessQuestionnaire(cmd.Context(), answers)
	if err != nil {
		p.Renderer().RenderError(pipeline.ErrorResult(err, answers["vendor_name"], args[0]))
		return err
	}

	return finish(cmd, cfg, p, a, qJSON, qMD)
}

func readAnswers(path string) (score.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("parse answers %s: no answers", path)
	}

	answers := make(score.Answers, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			answers[k] = val
		case bool:
			answers[k] = "No"
			if val {
				answers[k] = "Yes"
			}
		case int, float64:
			answers[k] = fmt.Sprint(val)
		default:
			return nil, fmt.Errorf("parse answers %s: %s must be a single value", path, k)
		}
	}
	return answers, nil
}

func printQuestions() {
	for _, q := range score.Questions() {
		line := fmt.Sprintf("%-24s %s", q.Key, q.Prompt)
		if len(q.Options) > 0 {
			line += " [" + strings.Join(q.Options, "/") + "]"
		}
		if q.DependsOn != "" {
			line += fmt.Sprintf(" (when %s is %s)", q.DependsOn, q.When)
		}
		fmt.Println(line)
	}
}
