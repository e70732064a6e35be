package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-courseware/internal/assessment"
	"github.com/mind-engage/mindengage-courseware/internal/datamodel"
	"github.com/mind-engage/mindengage-courseware/internal/discovery"
	"github.com/mind-engage/mindengage-courseware/internal/session"
	"github.com/mind-engage/mindengage-courseware/internal/storage"
)

var (
	quizFile    string
	answersFile string
	scoreHost   string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an answers file against a quiz definition",
	Long: `Loads a quiz (JSON or YAML) and a set of answers, submits them once and
prints the attempt result. With --host the result is written to an in-memory
host and the written fields are printed too; otherwise the result is stored
locally like a standalone page would.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&quizFile, "quiz", "", "quiz definition file (.json, .yaml)")
	scoreCmd.Flags().StringVar(&answersFile, "answers", "", "answers file (.json, .yaml)")
	scoreCmd.Flags().StringVar(&scoreHost, "host", "", "simulate a host: 2004 or 1.2")
	_ = scoreCmd.MarkFlagRequired("quiz")
	_ = scoreCmd.MarkFlagRequired("answers")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func loadQuiz(path string) (assessment.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return assessment.Quiz{}, err
	}
	if isYAML(path) {
		return assessment.DecodeYAML(data)
	}
	return assessment.DecodeJSON(data)
}

func loadAnswers(path string) (assessment.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		return assessment.DecodeAnswersYAML(data)
	}
	return assessment.DecodeAnswers(data)
}

// simulatedHost exposes h one level above the page under the name its
// version uses.
func simulatedHost(version string, h datamodel.Handle) (discovery.Accessor, error) {
	switch version {
	case "":
		return nil, nil
	case string(datamodel.Version2004):
		return discovery.Nested(1, discovery.Name2004, h), nil
	case string(datamodel.Version12):
		return discovery.Nested(1, discovery.NameLegacy, h), nil
	default:
		return nil, fmt.Errorf("unknown host version %q", version)
	}
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	qz, err := loadQuiz(quizFile)
	if err != nil {
		return fmt.Errorf("quiz: %w", err)
	}
	answers, err := loadAnswers(answersFile)
	if err != nil {
		return fmt.Errorf("answers: %w", err)
	}

	host := datamodel.NewMemoryHandle()
	acc, err := simulatedHost(scoreHost, host)
	if err != nil {
		return err
	}

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.Close()

	s := session.Open(ctx, acc, storage.NewLocal(be.kv, cfg.Namespace, logger),
		session.WithLogger(logger),
		session.WithJournal(be.journal),
		session.WithMaxDepth(cfg.DiscoveryMaxDepth),
	)
	defer s.Close()

	e, err := s.LoadQuiz(qz)
	if err != nil {
		return err
	}
	if c := e.Check(answers); !c.Complete {
		return fmt.Errorf("cannot submit, unanswered: %s", strings.Join(c.Missing, ", "))
	}
	res, err := e.Submit(ctx, answers)
	if err != nil {
		return err
	}

	out := map[string]any{"result": res, "delivery": e.Delivery()}
	if !s.Standalone() {
		out["host_values"] = host.Values()
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
