package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/revise/internal/cardgen"
	"github.com/abhisek/revise/internal/llm"
	"github.com/abhisek/revise/internal/material"
	"github.com/abhisek/revise/internal/quiz"
	"github.com/abhisek/revise/internal/tutor"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Study new material topic by topic",
	Long: "Loads material from --text, --file or --link (or asks for it), explains each\n" +
		"topic, quizzes you on it and turns the topics you pass into flashcards.",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		con := newConsole(cmd.InOrStdin(), cmd.OutOrStdout())

		prov, err := materialFromFlags(cmd, con)
		if err != nil {
			return err
		}
		mat, err := prov.Load(ctx)
		if err != nil {
			return fmt.Errorf("load material: %w", err)
		}
		if mat.Placeholder() {
			e.logger.Warn("material could not be read directly, teaching from a placeholder", "kind", mat.Kind)
		}
		topics := mat.Topics()
		if len(topics) == 0 {
			return errors.New("the material has no content to teach")
		}

		t, err := newTutor(ctx, e)
		if err != nil {
			return err
		}
		con.printf("Learning %q (%d topics).\n", mat.Title, len(topics))

		report, err := t.Teach(ctx, topics, consoleLearner{con})
		if err != nil {
			return err
		}
		printLearnReport(cmd.OutOrStdout(), report)
		return nil
	}),
}

func init() {
	f := learnCmd.Flags()
	f.String("text", "", "Study this text")
	f.String("file", "", "Study a local file")
	f.String("link", "", "Study a web page")
	f.String("title", "", "Title for the material (derived when empty)")
	learnCmd.MarkFlagsMutuallyExclusive("text", "file", "link")
}

// materialFromFlags picks the material source from flags, or asks for one.
func materialFromFlags(cmd *cobra.Command, con *console) (material.Provider, error) {
	title, _ := cmd.Flags().GetString("title")
	for _, src := range []struct{ flag, kind string }{
		{"text", material.SourceRawText},
		{"file", material.SourceFile},
		{"link", material.SourceLink},
	} {
		if v, _ := cmd.Flags().GetString(src.flag); v != "" {
			return material.New(src.kind, v, title)
		}
	}

	con.println("Material source options:")
	con.println("  1. Paste raw text")
	con.println("  2. Local file path")
	con.println("  3. Web link")
	choice, err := con.ask("Choose source (1/2/3): ")
	if err != nil {
		return nil, err
	}
	var kind, prompt string
	switch choice {
	case "1":
		kind, prompt = material.SourceRawText, "Paste material text: "
	case "2":
		kind, prompt = material.SourceFile, "Enter local file path: "
	case "3":
		kind, prompt = material.SourceLink, "Enter web link: "
	default:
		return nil, fmt.Errorf("%w: choice %q", material.ErrUnsupported, choice)
	}
	if title == "" {
		if title, err = con.ask("Optional title (enter to derive one): "); err != nil {
			return nil, err
		}
	}
	payload, err := con.ask(prompt)
	if err != nil {
		return nil, err
	}
	return material.New(kind, payload, title)
}

// newTutor wires the tutor's collaborators, using the LLM when one is
// configured and the offline fallbacks otherwise.
func newTutor(ctx context.Context, e *env) (*tutor.Tutor, error) {
	tracker, err := e.tracker(ctx)
	if err != nil {
		return nil, err
	}

	deps := tutor.Deps{
		Progress:   e.store.Progress(e.user),
		Quizzes:    e.store.Quizzes(e.user),
		Cards:      e.cards(),
		Stats:      tracker,
		Thresholds: e.cfg.Thresholds,
		MaxTopics:  e.cfg.Learn.MaxTopics,
		Now:        time.Now,
		Logger:     e.logger,
	}

	source := quiz.Source(quiz.StaticSource{})
	if e.cfg.LLM.Enabled() {
		p, err := llm.NewProvider(ctx, e.cfg.LLM, e.store.Events(e.user), e.logger)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("using language model", "provider", e.cfg.LLM.Provider, "model", p.ModelID())
		source = quiz.WithFallback(quiz.NewLLMSource(p, e.logger), source, e.logger)
		deps.Explainer = tutor.NewLLMExplainer(p, e.logger)
		deps.Generator = cardgen.NewLLM(p, e.cfg.Learn.CardsPerTopic, nil, e.logger)
	} else {
		e.logger.Info("no language model configured, using offline quizzes and cards")
	}
	deps.Runner = quiz.NewRunner(source, nil, e.logger)
	return tutor.New(deps), nil
}

// consoleLearner runs the learner's side of a teaching pass on the console.
type consoleLearner struct {
	con *console
}

var _ tutor.Learner = consoleLearner{}

func (l consoleLearner) Teach(_ context.Context, topic material.Topic, explanation string) error {
	l.con.printf("\n== %s ==\n\n%s\n\n", topic.Title, explanation)
	line, err := l.con.ask("Press enter for the quiz (q to stop) ")
	if err != nil {
		return stopTeaching(err)
	}
	if isQuit(line) {
		return tutor.ErrStopped
	}
	return nil
}

func (l consoleLearner) Ask(_ context.Context, q quiz.Question, index, total int) (string, error) {
	l.con.printf("\nQ%d/%d. %s\n", index+1, total, q.Prompt)
	for i, c := range q.Choices {
		l.con.printf("  %d) %s\n", i+1, c)
	}
	line, err := l.con.ask("> ")
	if err != nil {
		return "", stopTeaching(err)
	}
	if isQuit(line) {
		return "", tutor.ErrStopped
	}
	return line, nil
}

func (l consoleLearner) Review(_ context.Context, missed quiz.Answer, explanation string) {
	l.con.printf("\n  Missed: %s\n", missed.Question.Prompt)
	l.con.printf("  You answered %q, expected %q.\n", missed.Given, missed.Question.Answer)
	l.con.printf("  %s\n", explanation)
}

func (l consoleLearner) Done(_ context.Context, r tutor.TopicReport) {
	switch {
	case r.Skipped:
		l.con.printf("\n%s: no quiz could be built, try again later.\n", r.Topic)
	case r.Passed:
		l.con.printf("\n%s: passed %d/%d, %d new flashcards.\n", r.Topic, r.Score, r.Total, r.CardsAdded)
	default:
		l.con.printf("\n%s: %d/%d, not passed yet. It will come first next time.\n", r.Topic, r.Score, r.Total)
	}
}

func stopTeaching(err error) error {
	if errors.Is(err, io.EOF) {
		return tutor.ErrStopped
	}
	return err
}

func printLearnReport(out io.Writer, r *tutor.Report) {
	passed, cards := 0, 0
	for _, t := range r.Topics {
		if t.Passed {
			passed++
		}
		cards += t.CardsAdded
	}
	fmt.Fprintf(out, "\nTopics taught: %d, passed: %d, new flashcards: %d.\n", len(r.Topics), passed, cards)
	if len(r.Completed) > 0 {
		fmt.Fprintf(out, "Already complete: %d topics.\n", len(r.Completed))
	}
	if r.Stopped {
		fmt.Fprintln(out, "Stopped early; progress so far is saved.")
	}
}
