package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/muster/internal/model"
)

// maxContextPreview bounds how much of the source text is echoed with a question.
const maxContextPreview = 240

// Resolver answers clarifications. engine.Session satisfies it.
type Resolver interface {
	Resolve(id, answer string) bool
}

// ClarificationPrompter asks the user to answer pending clarifications on
// the terminal.
type ClarificationPrompter struct {
	reader *LineReader
	writer io.Writer
}

// NewClarificationPrompter creates a prompter with the given reader and writer.
func NewClarificationPrompter(reader io.Reader, writer io.Writer) *ClarificationPrompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &ClarificationPrompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// Ask walks through the pending clarifications in order. A blank answer
// skips a question and leaves it pending. Input ending early stops the walk
// without error. It returns the number of questions answered.
func (p *ClarificationPrompter) Ask(ctx context.Context, resolver Resolver, pending []model.ClarificationRequest) (int, error) {
	answered := 0
	for i, request := range pending {
		title := fmt.Sprintf("%s Clarification %d of %d", QuestionIcon, i+1, len(pending))
		if _, err := fmt.Fprintln(p.writer, RenderBox(title, formatClarification(request))); err != nil {
			return answered, fmt.Errorf("failed to write clarification: %w", err)
		}
		if _, err := fmt.Fprint(p.writer, FormatPrompt("Answer (blank to skip)")); err != nil {
			return answered, fmt.Errorf("failed to write prompt: %w", err)
		}

		answer, err := p.reader.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(p.writer)
			return answered, nil
		}
		if err != nil {
			return answered, err
		}

		if answer == "" {
			if _, err := fmt.Fprintln(p.writer, SubtleStyle.Render("Skipped; the question stays open.")); err != nil {
				slog.Warn("Failed to write skip notice", "error", err)
			}
			continue
		}

		if resolver.Resolve(request.ID, answer) {
			answered++
			if _, err := fmt.Fprintln(p.writer, FormatSuccess("Learned: "+answer)); err != nil {
				slog.Warn("Failed to write confirmation", "error", err)
			}
		}
	}
	return answered, nil
}

func formatClarification(request model.ClarificationRequest) string {
	var b strings.Builder
	b.WriteString(WarningStyle.Render(request.Content))

	if text := strings.TrimSpace(request.Context.Text); text != "" {
		b.WriteString("\n\n")
		b.WriteString(SubtleStyle.Render("From: " + truncate(text, maxContextPreview)))
	}
	if n := len(request.Context.Images); n > 0 {
		b.WriteString("\n")
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("With %d image(s)", n)))
	}
	return b.String()
}

func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
