package content

import (
	"bufio"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/abhisek/tutorloop/internal/llm"
	"github.com/abhisek/tutorloop/internal/phase"
)

// DemoResponder answers turn requests without a model, so the tutor can be
// played offline with the "mock" provider. Questions are small additions
// whose answer position rotates with the question number.
func DemoResponder(req llm.Request) llm.MockResponse {
	h := parseHeader(req)

	p := Payload{
		Phase: string(h.phase),
		State: h.state,
		Interface: Interface{
			InputType: InputContinue,
			Options:   []Option{},
			Progress:  h.progress,
		},
	}
	ui := &p.Interface

	switch h.phase {
	case phase.Intro:
		ui.Title = "Welcome to " + h.topic
		ui.Content = fmt.Sprintf("In this short lesson we will look at %s and then try %d questions together.", h.topic, h.total)
		ui.Instructions = "Press enter to start."
	case phase.Teach:
		ui.Title = "Learning " + h.topic
		ui.Content = fmt.Sprintf("Here are the key ideas of %s. Adding two numbers means counting on from the first by the second. For example 3 + 4: start at 3 and count four more to reach 7.", h.topic)
		ui.Instructions = "Press enter when you are ready for the questions."
	case phase.Ask:
		a, b := h.state.QuestionIndex+2, h.state.QuestionIndex+3
		sum := a + b
		values := []int{sum - 1, sum + 1, sum + 2}
		at := h.state.QuestionIndex % 4
		values = slices.Insert(values, at, sum)
		ids := []string{"a", "b", "c", "d"}
		for i, v := range values {
			ui.Options = append(ui.Options, Option{ID: ids[i], Label: strconv.Itoa(v)})
		}
		p.CorrectAnswerID = ids[at]
		ui.Title = fmt.Sprintf("Question %d of %d", h.state.QuestionIndex+1, h.total)
		ui.Content = fmt.Sprintf("What is %d + %d?", a, b)
		ui.Instructions = "Pick one option."
		ui.InputType = InputMultipleChoice
	case phase.Evaluate:
		if h.correct {
			ui.Title = "Correct!"
			ui.Content = "Well done, that is the right answer."
		} else {
			ui.Title = "Not quite"
			ui.Content = "That one was not right. " + h.correctLine
		}
		ui.Instructions = "Press enter to continue."
	case phase.Report:
		ui.Title = "Lesson report"
		ui.Content = fmt.Sprintf("You answered %d of %d questions correctly.", h.state.Score, h.total)
		ui.Instructions = "Press enter to finish."
	case phase.Completed:
		ui.Title = "All done"
		ui.Content = fmt.Sprintf("Final score: %d of %d. Thanks for learning about %s.", h.state.Score, h.total, h.topic)
		ui.Instructions = "Restart to go again."
		ui.InputType = InputNone
	case phase.Paused:
		ui.Title = "Lesson paused"
		ui.Content = "Take your time."
		if h.attention {
			ui.Content = "Thanks for reporting the problem. Someone will take a look."
		}
		ui.Instructions = "Type resume to continue or exit to finish."
		ui.InputType = InputText
	}

	switch h.directive {
	case phase.DirectiveReview:
		ui.Content = "Quick recap: adding counts on from the first number. " + ui.Content
	case phase.DirectiveClarify:
		ui.Content = "Put simply: put both groups together and count them all. " + ui.Content
	case phase.DirectiveRedirect:
		ui.Content = "Let's stay with the lesson. You can type: " + strings.Join(phase.Vocabulary(), ", ") + ". " + ui.Content
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return llm.MockResponse{Err: err}
	}
	return llm.MockResponse{
		Content: raw,
		Usage:   llm.Usage{InputTokens: len(req.System) / 4, OutputTokens: len(raw) / 4},
	}
}

type demoHeader struct {
	topic       string
	phase       phase.Phase
	directive   phase.Directive
	state       phase.State
	total       int
	progress    int
	correct     bool
	correctLine string
	attention   bool
}

// parseHeader reads back the header lines written by buildUserMessage.
func parseHeader(req llm.Request) demoHeader {
	h := demoHeader{phase: phase.Intro, directive: phase.DirectiveNormal, total: phase.DefaultTotalQuestions}
	if len(req.Messages) == 0 {
		return h
	}

	sc := bufio.NewScanner(strings.NewReader(req.Messages[0].Content))
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "The answer is correct") {
			h.correct = true
		}
		if strings.Contains(line, "The learner reported a problem") {
			h.attention = true
		}

		key, val, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		switch key {
		case "Topic":
			h.topic = val
		case "Phase":
			if p, err := phase.Parse(val); err == nil {
				h.phase = p
			}
		case "Directive":
			h.directive = phase.Directive(val)
		case "State":
			fmt.Sscanf(val, "questionIndex=%d score=%d", &h.state.QuestionIndex, &h.state.Score)
		case "Total questions":
			h.total, _ = strconv.Atoi(val)
		case "Progress":
			h.progress, _ = strconv.Atoi(val)
		case "Correct answer":
			h.correctLine = "The correct answer is " + val + "."
		}
	}
	return h
}
