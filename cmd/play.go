package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorloop/internal/app"
	"github.com/abhisek/tutorloop/internal/gateway"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a lesson in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	addLessonFlags(playCmd)
}

// runPlay builds one session and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	offline, _ := cmd.Flags().GetBool("offline")
	gen, err := env.generator(cmd, offline)
	if err != nil {
		return err
	}

	lesson := env.lesson()
	g, err := gateway.New(lesson, gen, env.gatewayOptions("", nil))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return app.Run(cmd.Context(), app.Options{
		Session:        g,
		Topic:          lesson.Topic,
		TotalQuestions: lesson.Lesson.TotalQuestions,
	})
}
