package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorloop/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded lesson sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sessions, err := s.EventRepo().SessionSummaries(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		printSessions(cmd.OutOrStdout(), sessions)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show every turn of a lesson session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		turns, err := s.EventRepo().QueryTurns(cmd.Context(), store.QueryOpts{SessionID: args[0]})
		if err != nil {
			return fmt.Errorf("query turns: %w", err)
		}
		if len(turns) == 0 {
			return fmt.Errorf("session %s not found", args[0])
		}
		printTurns(cmd.OutOrStdout(), args[0], turns)
		return nil
	},
}

func printSessions(w io.Writer, sessions []store.SessionSummary) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No lessons recorded yet.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-19s  %-24s  %-9s  %5s  %5s  %s\n",
		"Session", "Last turn", "Topic", "Phase", "Score", "Turns", "!")
	rule(w, 112)
	for _, ss := range sessions {
		flag := ""
		if ss.NeedsAttention {
			flag = "!"
		}
		fmt.Fprintf(w, "%-36s  %-19s  %-24s  %-9s  %5s  %5d  %s\n",
			ss.SessionID,
			ss.LastTurnAt.Local().Format(timeLayout),
			truncate(ss.Topic, 24),
			ss.Phase,
			fmt.Sprintf("%d/%d", ss.Score, ss.TotalQuestions),
			ss.Turns,
			flag,
		)
	}
}

func printTurns(w io.Writer, sessionID string, turns []store.TurnEventRecord) {
	fmt.Fprintf(w, "Session:  %s\n", sessionID)
	fmt.Fprintf(w, "Topic:    %s\n\n", turns[0].Topic)

	fmt.Fprintf(w, "%-8s  %-9s  %-21s  %-16s  %4s  %5s  %3s  %s\n",
		"Time", "Event", "Transition", "Directive", "Q", "Score", "Try", "Outcome")
	rule(w, 96)
	for _, t := range turns {
		event := t.Event
		if t.Command != "" {
			event = t.Command
		}
		outcome := t.Outcome
		if t.ErrorMessage != "" {
			outcome += ": " + truncate(t.ErrorMessage, 40)
		}
		fmt.Fprintf(w, "%-8s  %-9s  %-21s  %-16s  %4d  %5s  %3d  %s\n",
			t.Timestamp.Local().Format("15:04:05"),
			truncate(event, 9),
			t.PhaseFrom+" -> "+t.PhaseTo,
			t.Directive,
			t.QuestionIndex,
			fmt.Sprintf("%d/%d", t.Score, t.TotalQuestions),
			t.Attempts,
			outcome,
		)
	}
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	historyCmd.AddCommand(historyShowCmd)
}
