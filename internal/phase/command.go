package phase

import "strings"

// Command is a learner-supplied directive that can preempt normal
// progression.
type Command string

const (
	CommandNone         Command = ""
	CommandReview       Command = "review"
	CommandClarify      Command = "clarify"
	CommandReportIssue  Command = "report_issue"
	CommandPause        Command = "pause"
	CommandResume       Command = "resume"
	CommandExit         Command = "exit"
	CommandUnrecognized Command = "unrecognized"
)

// vocabulary maps the lower-cased learner text to a command.
var vocabulary = map[string]Command{
	"review":       CommandReview,
	"clarify":      CommandClarify,
	"report issue": CommandReportIssue,
	"report_issue": CommandReportIssue,
	"report-issue": CommandReportIssue,
	"pause":        CommandPause,
	"resume":       CommandResume,
	"exit":         CommandExit,
}

// ClassifyCommand maps raw learner text to a Command. Matching is exact after
// trimming and lower-casing; empty text is CommandNone and anything else,
// including text that tries to set a score or jump to a phase, is
// CommandUnrecognized.
func ClassifyCommand(text string) Command {
	norm := strings.ToLower(strings.TrimSpace(text))
	if norm == "" {
		return CommandNone
	}
	if cmd, ok := vocabulary[norm]; ok {
		return cmd
	}
	return CommandUnrecognized
}

// Vocabulary returns the canonical spelling of every recognized command, for
// help text.
func Vocabulary() []string {
	return []string{"review", "clarify", "report issue", "pause", "resume", "exit"}
}
