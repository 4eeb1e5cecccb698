// Package cli drives an interactive terminal session of the training module,
// the same engine the HTTP API serves, without a browser.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/parley-labs/parley/internal/presentation/tui"
	"github.com/parley-labs/parley/pkg/engine"
)

const localUser = "local"

// RunSession plays the module interactively on the given reader/writer until
// completion or EOF.
func RunSession(ctx context.Context, eng *engine.Engine, in io.Reader, out io.Writer) error {
	render := tui.NewRenderer()
	reader := bufio.NewReader(in)

	tui.PrintBanner()

	if _, err := eng.Start(ctx, localUser); err != nil {
		return fmt.Errorf("failed to start module: %w", err)
	}

	for {
		view, err := eng.CurrentState(localUser)
		if err != nil {
			return err
		}

		switch view.Kind {
		case engine.ViewCompleted:
			fmt.Fprintln(out, render("# Module completed\n\nWell done. You answered "+
				fmt.Sprintf("%d", len(view.History))+" questions."))
			return nil

		case engine.ViewRemediation:
			fmt.Fprintln(out, render(view.Content))
			fmt.Fprintln(out, render("## Remedial question\n\n"+view.Question))
			printOptions(out, view.Options)

		case engine.ViewStep:
			fmt.Fprintln(out, render(fmt.Sprintf("## Step %d\n\n%s", view.Step.ID, view.Step.Scenario)))
			printOptions(out, view.Step.Options)
			if view.Step.AllowFreeForm {
				fmt.Fprintln(out, "(answer in your own words)")
			}
		}

		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			continue
		}
		if answer == "exit" || answer == "quit" {
			fmt.Fprintln(out, "Bye!")
			return nil
		}

		result, err := eng.SubmitAnswer(ctx, localUser, answer, view.Kind == engine.ViewRemediation)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\nPlease try again.\n", err)
			continue
		}
		printResult(out, render, result)

		if result.Outcome == engine.OutcomeModuleCompleted {
			return nil
		}
	}
}

func printOptions(out io.Writer, options map[string]string) {
	letters := make([]string, 0, len(options))
	for letter := range options {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	for _, letter := range letters {
		fmt.Fprintf(out, "  %s. %s\n", letter, options[letter])
	}
}

func printResult(out io.Writer, render func(string) string, result *engine.SubmitResult) {
	if result.Message != "" {
		fmt.Fprintln(out, result.Message)
	}
	if result.Evaluation != nil {
		fmt.Fprintln(out, render(result.Evaluation.Feedback))
		fmt.Fprintf(out, "Score: %.1f / 10\n", result.Evaluation.Score)
	}
	if result.GoldResponse != "" {
		fmt.Fprintln(out, render("**Model answer:** "+result.GoldResponse))
	}
	if result.Remediation != nil {
		fmt.Fprintln(out, render(result.Remediation.Explanation))
		if result.Remediation.Hint != "" {
			fmt.Fprintln(out, render("*Hint: "+result.Remediation.Hint+"*"))
		}
	}
	if result.LessonContent != "" {
		fmt.Fprintln(out, render(result.LessonContent))
	}
	fmt.Fprintln(out)
}
