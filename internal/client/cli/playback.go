package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/leeya018/gratitudes/internal/client/playback"
	"github.com/leeya018/gratitudes/internal/common"
)

func (a *App) playbackOptions() playback.Options {
	return playback.Options{
		OnStateChange: a.printPlayback,
		OnError: func(err error) {
			fmt.Fprintf(a.out, "\nPlayback error: %s\n", userMessage("play the next affirmation", err))
		},
	}
}

func (a *App) printPlayback(st playback.Status) {
	if st.State == playback.Idle {
		fmt.Fprintln(a.out, "\n[playback stopped]")
		return
	}
	fmt.Fprintf(a.out, "\n[%s, repeat %s] %s\n", st.State, st.Repeat, st.Clip.Label)
}

func parseRepeat(args []string) (playback.Repeat, error) {
	if len(args) == 0 {
		return playback.RepeatNone, nil
	}
	r, err := playback.ParseRepeat(args[0])
	if err != nil {
		return r, common.NewValidationError(err.Error())
	}
	return r, nil
}

// Play plays one affirmation, replacing any current playback.
func (a *App) Play(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return common.NewValidationError("Usage: play <n> [none|10min|30min|1hour|forever]")
	}
	repeat, err := parseRepeat(args[1:])
	if err != nil {
		return err
	}
	s, err := a.sentenceAt(ctx, args[0])
	if err != nil {
		return err
	}
	if !s.HasAudio {
		return common.NewValidationError("This affirmation has no audio yet. Use 'attach' or 'record'.")
	}

	clip, err := a.affirmations.Clip(ctx, s)
	if err != nil {
		return err
	}
	return a.controller.PlayOne(ctx, clip, repeat)
}

// PlayAll plays every affirmation with audio in list order.
func (a *App) PlayAll(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return common.NewValidationError("Usage: playall [none|10min|30min|1hour|forever]")
	}
	repeat, err := parseRepeat(args)
	if err != nil {
		return err
	}
	list, err := a.loadSentences(ctx)
	if err != nil {
		return err
	}

	clips, err := a.affirmations.Clips(ctx, list)
	if err != nil {
		return err
	}
	return a.controller.PlayAll(ctx, clips, repeat)
}

func (a *App) Stop(context.Context, []string) error {
	if a.controller.Status().State == playback.Idle {
		fmt.Fprintln(a.out, "Nothing is playing.")
		return nil
	}
	a.controller.Stop()
	return nil
}

func (a *App) BackgroundStart(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return common.NewValidationError("Usage: bg <youtube-url>")
	}
	if err := a.background.Start(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Background audio playing at volume %d.\n", a.background.Volume())
	return nil
}

func (a *App) BackgroundStop(context.Context, []string) error {
	if !a.background.Playing() {
		fmt.Fprintln(a.out, "No background audio is playing.")
		return nil
	}
	a.background.Stop()
	fmt.Fprintln(a.out, "Background audio stopped.")
	return nil
}

func (a *App) Volume(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Volume: %d\n", a.background.Volume())
		return nil
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return common.NewValidationError("Usage: volume <0-100>")
	}
	if err := a.background.SetVolume(ctx, v); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Volume: %d\n", v)
	return nil
}
