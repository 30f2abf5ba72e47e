package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leeya018/gratitudes/internal/client/models"
	"github.com/leeya018/gratitudes/internal/common"
)

const maxRecordSeconds = 300

// Sentences lists affirmations, numbered for the commands that take <n>.
func (a *App) Sentences(ctx context.Context, _ []string) error {
	list, err := a.loadSentences(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No affirmations yet. Use 'write' or 'compose' to add one.")
		return nil
	}
	for i, s := range list {
		marker := " "
		if s.HasAudio {
			marker = "♪"
		}
		fmt.Fprintf(a.out, "%2d. %s %s\n", i+1, marker, s.Text)
	}
	return nil
}

func (a *App) loadSentences(ctx context.Context) ([]*models.Sentence, error) {
	list, err := a.affirmations.List(ctx)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.sentences = list
	a.mu.Unlock()
	return list, nil
}

// sentenceAt resolves a 1-based number from the last listing, loading the
// list first when nothing has been shown yet.
func (a *App) sentenceAt(ctx context.Context, arg string) (*models.Sentence, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return nil, common.NewValidationError(fmt.Sprintf("%q is not an affirmation number", arg))
	}

	a.mu.Lock()
	list := a.sentences
	a.mu.Unlock()
	if list == nil {
		if list, err = a.loadSentences(ctx); err != nil {
			return nil, err
		}
	}

	if n > len(list) {
		return nil, common.NewValidationError(fmt.Sprintf("There is no affirmation #%d. Run 'sentences' to list them.", n))
	}
	return list[n-1], nil
}

// Write saves a free-form affirmation.
func (a *App) Write(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		var err error
		if text, err = getSimpleText(a.reader, "Write your affirmation", a.out); err != nil {
			return err
		}
	}

	s, err := a.affirmations.Create(ctx, text)
	if err != nil {
		return err
	}
	a.sentenceAdded(s)
	return nil
}

// Compose builds an affirmation from a goal, feelings and traits.
func (a *App) Compose(ctx context.Context, _ []string) error {
	target, err := GetNonEmpty(a.reader, "What do you want to have achieved?", a.out)
	if err != nil {
		return err
	}
	emotions, err := GetNonEmpty(a.reader, "How will you feel?", a.out)
	if err != nil {
		return err
	}
	characters, err := GetNonEmpty(a.reader, "Who will you be?", a.out)
	if err != nil {
		return err
	}

	s, err := a.affirmations.Compose(ctx, target, emotions, characters)
	if err != nil {
		return err
	}
	a.sentenceAdded(s)
	return nil
}

func (a *App) sentenceAdded(s *models.Sentence) {
	a.mu.Lock()
	a.sentences = nil
	a.mu.Unlock()
	fmt.Fprintf(a.out, "Saved: %s\n", s.Text)
}

func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return common.NewValidationError("Usage: edit <n> [new text]")
	}
	s, err := a.sentenceAt(ctx, args[0])
	if err != nil {
		return err
	}

	text := strings.Join(args[1:], " ")
	if text == "" {
		if text, err = getSimpleText(a.reader, fmt.Sprintf("New text for %q", s.Text), a.out); err != nil {
			return err
		}
	}

	updated, err := a.affirmations.Edit(ctx, s.ID, text)
	if err != nil {
		return err
	}
	a.replaceSentence(updated)
	fmt.Fprintf(a.out, "Updated: %s\n", updated.Text)
	return nil
}

// Delete removes an affirmation and stops it if it is playing.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return common.NewValidationError("Usage: delete <n>")
	}
	s, err := a.sentenceAt(ctx, args[0])
	if err != nil {
		return err
	}

	if a.controller.Status().Clip.ID == s.ID {
		a.controller.Stop()
	}
	if err := a.affirmations.Delete(ctx, s.ID); err != nil {
		return err
	}

	a.mu.Lock()
	a.sentences = nil
	a.mu.Unlock()
	fmt.Fprintf(a.out, "Deleted: %s\n", s.Text)
	return nil
}

func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return common.NewValidationError("Usage: attach <n> <file>")
	}
	s, err := a.sentenceAt(ctx, args[0])
	if err != nil {
		return err
	}

	updated, err := a.affirmations.AttachFile(ctx, s.ID, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	a.replaceSentence(updated)
	fmt.Fprintln(a.out, "Audio attached.")
	return nil
}

// Record captures audio from the microphone and attaches it.
func (a *App) Record(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return common.NewValidationError("Usage: record <n> <seconds>")
	}
	secs, err := strconv.Atoi(args[1])
	if err != nil || secs < 1 || secs > maxRecordSeconds {
		return common.NewValidationError(fmt.Sprintf("Seconds must be between 1 and %d.", maxRecordSeconds))
	}
	s, err := a.sentenceAt(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Recording for %d seconds...\n", secs)
	data, err := a.recorder.Record(ctx, time.Duration(secs)*time.Second)
	if err != nil {
		return err
	}

	updated, err := a.affirmations.AttachRecording(ctx, s.ID, data)
	if err != nil {
		return err
	}
	a.replaceSentence(updated)
	fmt.Fprintln(a.out, "Recording saved.")
	return nil
}

func (a *App) replaceSentence(updated *models.Sentence) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, s := range a.sentences {
		if s.ID == updated.ID {
			a.sentences[i] = updated
			return
		}
	}
}
