// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fieldcheck/cliparse"
	"fieldcheck/models"
	"fieldcheck/questionnaire"
)

// printNotifier renders flow notifications on the terminal.
type printNotifier struct {
	out io.Writer
}

func (n printNotifier) Success(msg string) { fmt.Fprintf(n.out, "✓ %s\n", msg) }
func (n printNotifier) Warning(msg string) { fmt.Fprintf(n.out, "! %s\n", msg) }
func (n printNotifier) Error(msg string)   { fmt.Fprintf(n.out, "✗ %s\n", msg) }

func fillCmd(cfg *cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "fill <reportId>",
		Short: "Fill the inspection questionnaire section by section",
		Long: `Fill walks the two-part questionnaire for one inspection report.

Part A is mandatory. Each section is validated and saved to the backend
before moving on, so progress is never lost. After the last Part A
section you choose whether to fill the optional Part B. When the
questionnaire is complete, review and submit the report:

  fieldcheck review <reportId>
  fieldcheck submit <reportId>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ctrl := questionnaire.NewController(client, args[0], printNotifier{out: out})
			if err := ctrl.Load(cmd.Context()); err != nil {
				return fmt.Errorf("loading questionnaire: %w", err)
			}

			in := bufio.NewReader(cmd.InOrStdin())
			return runFill(cmd.Context(), ctrl, in, out)
		},
	}
}

// runFill is the interactive loop: edit the current section, resolve the
// Part B decision, stop at Done or on quit.
func runFill(ctx context.Context, ctrl *questionnaire.Controller, in *bufio.Reader, out io.Writer) error {
	for {
		switch ctrl.State() {
		case questionnaire.StatePartAEditing, questionnaire.StatePartBEditing:
			quit, err := editSection(ctx, ctrl, in, out)
			if err != nil {
				return err
			}
			if quit {
				fmt.Fprintln(out, "Saved progress is kept; run fill again to resume.")
				return nil
			}

		case questionnaire.StateBranchDecision:
			fmt.Fprintln(out, "\nPart A complete.")
			answer, err := prompt(in, out, "Fill the detailed Part B questionnaire? [y/N]: ")
			if err != nil {
				return err
			}
			if strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes") {
				if err := ctrl.FillPartB(ctx); err != nil {
					var le *questionnaire.LoadError
					if errors.As(err, &le) {
						continue // reported; decision can be retried
					}
					return err
				}
			} else {
				if err := ctrl.FinishNow(); err != nil {
					return err
				}
			}

		case questionnaire.StateDone:
			fmt.Fprintf(out, "\nQuestionnaire complete. Next: fieldcheck review %s\n", ctrl.ReportID())
			return nil

		default:
			return fmt.Errorf("unexpected questionnaire state %v", ctrl.State())
		}
	}
}

// editSection collects answers for the section under the cursor and applies
// one navigation action. Returns quit=true when the officer leaves the flow.
func editSection(ctx context.Context, ctrl *questionnaire.Controller, in *bufio.Reader, out io.Writer) (quit bool, err error) {
	sec, ok := ctrl.CurrentSection()
	if !ok {
		// Degraded Part B with no sections: only way forward is back.
		fmt.Fprintln(out, "\nNo sections available in this part.")
		answer, err := prompt(in, out, "Return to Part A? [Y/n]: ")
		if err != nil {
			return false, err
		}
		if strings.EqualFold(answer, "n") || strings.EqualFold(answer, "no") {
			return true, nil
		}
		return false, ctrl.BackToPartA(ctx)
	}

	fmt.Fprintf(out, "\n── Part %s, section %d of %d: %s ──\n",
		ctrl.ActivePart(), ctrl.SectionIndex()+1, ctrl.SectionCount(), sec.Name)

	questions := ctrl.Questions()
	if len(questions) == 0 {
		answer, err := prompt(in, out, "No questions loaded. Retry? [Y/n]: ")
		if err != nil {
			return false, err
		}
		if strings.EqualFold(answer, "n") || strings.EqualFold(answer, "no") {
			return true, nil
		}
		if err := ctrl.ReloadQuestions(ctx); err != nil {
			fmt.Fprintln(out, "Still unavailable.")
		}
		return false, nil
	}

	for i, q := range questions {
		if err := askQuestion(ctrl, in, out, i+1, q); err != nil {
			return false, err
		}
	}

	return applyAction(ctx, ctrl, in, out)
}

func askQuestion(ctrl *questionnaire.Controller, in *bufio.Reader, out io.Writer, num int, q models.Question) error {
	current, has := ctrl.Answer(q.ID)
	hint := "Yes/No/NA"
	if has && current.Value != "" {
		hint = fmt.Sprintf("Yes/No/NA, enter keeps %q", current.Value)
	}

	fmt.Fprintf(out, "\n%d. %s\n", num, q.Text)
	for {
		answer, err := prompt(in, out, fmt.Sprintf("   Answer [%s]: ", hint))
		if err != nil {
			return err
		}
		if answer == "" && has && current.Value != "" {
			break // keep existing
		}

		var value string
		switch strings.ToLower(answer) {
		case "yes", "y":
			value = models.AnswerYes
		case "no", "n":
			value = models.AnswerNo
		case "na", "n/a":
			value = models.AnswerNA
		default:
			fmt.Fprintln(out, "   Please answer Yes, No, or NA.")
			continue
		}
		if err := ctrl.SetAnswer(q.ID, value); err != nil {
			return err
		}
		current, has = ctrl.Answer(q.ID)
		break
	}

	// Yes and No require an explanation; NA forbids one.
	if current.Value == models.AnswerYes || current.Value == models.AnswerNo {
		hint := "required"
		if strings.TrimSpace(current.Notes) != "" {
			hint = fmt.Sprintf("enter keeps %q", current.Notes)
		}
		for {
			notes, err := prompt(in, out, fmt.Sprintf("   Notes (%s): ", hint))
			if err != nil {
				return err
			}
			if notes == "" && strings.TrimSpace(current.Notes) != "" {
				break
			}
			if strings.TrimSpace(notes) == "" {
				fmt.Fprintf(out, "   Notes are required for %s answers.\n", current.Value)
				continue
			}
			if err := ctrl.SetNotes(q.ID, notes); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

func applyAction(ctx context.Context, ctrl *questionnaire.Controller, in *bufio.Reader, out io.Writer) (quit bool, err error) {
	choices := "[n]ext, [b]ack, [r]edo section, [q]uit"
	if ctrl.IsLastSection() {
		choices = "[s]ave and finish, [b]ack, [r]edo section, [q]uit"
	}

	for {
		answer, err := prompt(in, out, fmt.Sprintf("\nAction %s: ", choices))
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "n", "next", "":
			if ctrl.IsLastSection() {
				err = ctrl.Submit(ctx)
			} else {
				err = ctrl.NextSection(ctx)
			}
		case "s", "save", "submit", "finish":
			if !ctrl.IsLastSection() {
				fmt.Fprintln(out, "Finishing is only available on the last section.")
				continue
			}
			err = ctrl.Submit(ctx)
		case "b", "back":
			if ctrl.IsFirstSection() {
				fmt.Fprintln(out, "Already at the first section.")
				continue
			}
			return false, ctrl.PrevSection(ctx)
		case "r", "redo":
			return false, nil
		case "q", "quit":
			return true, nil
		default:
			fmt.Fprintln(out, "Unknown action.")
			continue
		}

		var ve *questionnaire.ValidationError
		if errors.As(err, &ve) {
			reportValidation(out, ctrl, ve)
			return false, nil // redo the section
		}
		if err != nil {
			// Save or load failure was already notified; stay on the section.
			fmt.Fprintln(out, "Section was not saved; try again.")
			return false, nil
		}
		return false, nil
	}
}

func reportValidation(out io.Writer, ctrl *questionnaire.Controller, ve *questionnaire.ValidationError) {
	byID := map[int64]models.Question{}
	for _, q := range ctrl.Questions() {
		byID[q.ID] = q
	}
	if len(ve.Result.MissingAnswers) > 0 {
		fmt.Fprintln(out, "Unanswered questions:")
		for _, id := range ve.Result.MissingAnswers {
			fmt.Fprintf(out, "  - %s\n", byID[id].Text)
		}
	}
	if len(ve.Result.MissingNotes) > 0 {
		fmt.Fprintln(out, "Missing notes (required for Yes/No answers):")
		for _, id := range ve.Result.MissingNotes {
			fmt.Fprintf(out, "  - %s\n", byID[id].Text)
		}
	}
}

func prompt(in *bufio.Reader, out io.Writer, msg string) (string, error) {
	fmt.Fprint(out, msg)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
