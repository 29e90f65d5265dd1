package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/muster/internal/model"
)

type recordingResolver struct {
	answers map[string]string
}

func (r *recordingResolver) Resolve(id, answer string) bool {
	if r.answers == nil {
		r.answers = make(map[string]string)
	}
	r.answers[id] = answer
	return true
}

func pendingQuestions() []model.ClarificationRequest {
	return []model.ClarificationRequest{
		{ID: "c1", Content: "Is Ravi's rate 800 or 850?", Context: model.ClarificationContext{Text: "Ravi 800/850 site A"}},
		{ID: "c2", Content: "Which site is TA?", Context: model.ClarificationContext{Images: []model.Image{{Data: "x"}}}},
		{ID: "c3", Content: "Half day for Anil?"},
	}
}

func TestClarificationPrompterAsk(t *testing.T) {
	var out bytes.Buffer
	prompter := NewClarificationPrompter(strings.NewReader("Always 800\n\nyes\n"), &out)
	resolver := &recordingResolver{}

	answered, err := prompter.Ask(context.Background(), resolver, pendingQuestions())
	require.NoError(t, err)
	assert.Equal(t, 2, answered)
	assert.Equal(t, map[string]string{"c1": "Always 800", "c3": "yes"}, resolver.answers)

	output := out.String()
	assert.Contains(t, output, "Clarification 1 of 3")
	assert.Contains(t, output, "Ravi 800/850 site A")
	assert.Contains(t, output, "With 1 image(s)")
	assert.Contains(t, output, "Skipped")
}

func TestClarificationPrompterStopsAtEndOfInput(t *testing.T) {
	var out bytes.Buffer
	prompter := NewClarificationPrompter(strings.NewReader("Always 800"), &out)
	resolver := &recordingResolver{}

	answered, err := prompter.Ask(context.Background(), resolver, pendingQuestions())
	require.NoError(t, err)
	assert.Equal(t, 1, answered)
	assert.Len(t, resolver.answers, 1)
}

func TestClarificationPrompterCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prompter := NewClarificationPrompter(strings.NewReader("answer\n"), &bytes.Buffer{})
	_, err := prompter.Ask(ctx, &recordingResolver{}, pendingQuestions())
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "a b c", truncate("a\n b   c", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestRenderRecords(t *testing.T) {
	records := []model.AttendanceRecord{
		{Date: "2024-01-01", LabourName: "Ravi", SiteName: "Site A", BaseSalary: 800, Day: 1, OTHours: 2, OTAmount: 200, TotalPayable: 1000, IsConfirmed: true},
		{Date: "2024-01-01", LabourName: "Suresh", SiteName: "Site B", BaseSalary: 700, Day: 0.5, TotalPayable: 350},
	}

	var out bytes.Buffer
	require.NoError(t, RenderRecords(&out, records))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "LABOUR")
	assert.Contains(t, lines[1], SuccessIcon)
	assert.Contains(t, lines[1], "1000.00")
	assert.True(t, strings.HasPrefix(lines[2], "?"))
	assert.Contains(t, lines[2], "0.5")
	assert.Contains(t, lines[3], "1350.00")
}

func TestRenderRules(t *testing.T) {
	rules := []model.LearningRule{
		{Pattern: "Which site is TA?", Explanation: "Tower A", CreatedAt: time.Date(2024, 1, 1, 15, 4, 0, 0, time.UTC)},
	}

	var out bytes.Buffer
	require.NoError(t, RenderRules(&out, rules))
	assert.Contains(t, out.String(), "Which site is TA?")
	assert.Contains(t, out.String(), "Tower A")
	assert.Contains(t, out.String(), "3:04PM")
}

func TestRunWithSpinner(t *testing.T) {
	var out syncBuffer
	sentinel := errors.New("boom")

	err := RunWithSpinner(&out, "Extracting", func() error {
		time.Sleep(250 * time.Millisecond)
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	assert.NoError(t, RunWithSpinner(&out, "Extracting", func() error { return nil }))
}

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("done"), "done")
	assert.Contains(t, FormatError("bad"), "bad")
	assert.Contains(t, FormatWarning("careful"), "careful")
	assert.Contains(t, FormatInfo("note"), "note")
	assert.Contains(t, FormatTitle("Muster"), "Muster")
	assert.Contains(t, RenderBox("Title", "body"), "body")
}
