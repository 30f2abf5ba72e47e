package cli

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/leeya018/gratitudes/internal/client/client"
	"github.com/leeya018/gratitudes/internal/client/models"
	"github.com/leeya018/gratitudes/internal/client/playback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_StopsOfferingAtLimit(t *testing.T) {
	ta := newTestApp(t)
	ta.journal.today.Count = 9

	out := ta.run("add the tenth one", "help", "add eleventh")

	assert.Equal(t, []string{"the tenth one"}, ta.journal.added)
	assert.Contains(t, out, "Saved. 10 of 10 today.")
	assert.Contains(t, out, msgComplete)
	assert.NotContains(t, out, "add [text]")
	assert.Equal(t, 10, ta.journal.today.Count)
	assert.True(t, ta.isComplete())
}

func TestAdd_PromptsAndValidates(t *testing.T) {
	ta := newTestApp(t)

	out := ta.run("add", "sunlight", "add", "   ")
	assert.Equal(t, []string{"sunlight"}, ta.journal.added)
	assert.Contains(t, out, "What are you grateful for?")
	assert.Contains(t, out, "Saved. 1 of 10 today.")
	assert.Contains(t, out, "Gratitude is required")
}

func TestAdd_NewDayReopensJournal(t *testing.T) {
	ta := newTestApp(t)
	ta.setComplete(true)

	out := ta.run("add fresh start")
	assert.Equal(t, []string{"fresh start"}, ta.journal.added)
	assert.NotContains(t, out, msgComplete)
}

func TestAdd_ServerRejectsWhenFlagIsStale(t *testing.T) {
	ta := newTestApp(t)
	ta.journal.today.Count = 10

	out := ta.run("add too many")
	assert.Empty(t, ta.journal.added)
	assert.Contains(t, out, msgComplete)
	assert.True(t, ta.isComplete())
}

func TestAdd_WriteFailure(t *testing.T) {
	ta := newTestApp(t)
	ta.journal.addErr = &client.APIError{Status: http.StatusInternalServerError, Message: "failed to save gratitude"}

	out := ta.run("add something")
	assert.Contains(t, out, "Could not save your gratitude: failed to save gratitude. Please try again.")
}

func TestTodayDatesAndShow(t *testing.T) {
	ta := newTestApp(t)
	ta.journal.today.Gratitudes = []*models.Gratitude{{Text: "coffee"}, {Text: "friends"}}
	ta.journal.today.Count = 2
	ta.journal.dates = []string{"2026-10-15", "2026-10-14"}

	out := ta.run("today", "count", "dates", "show 2026-10-15", "show 2026-10-01", "show yesterday", "show")

	assert.Contains(t, out, "2026-10-15: 2 of 10")
	assert.Contains(t, out, " 1. coffee\n")
	assert.Contains(t, out, " 2. friends\n")
	assert.Contains(t, out, "8 more to go.")
	assert.Contains(t, out, "2 gratitudes today.")
	assert.Contains(t, out, "2026-10-14\n")
	assert.Contains(t, out, "No gratitudes on 2026-10-01.")
	assert.Contains(t, out, "invalid date, expected YYYY-MM-DD")
	assert.Contains(t, out, "Usage: show <YYYY-MM-DD>")
}

func TestLogin(t *testing.T) {
	ta := newTestApp(t)
	ta.auth.loggedIn, ta.auth.username = false, ""
	ta.journal.today.Count = 10
	ta.journal.today.Complete = true

	out := ta.run("today", "login", "bob", "hunter22")

	assert.Contains(t, out, msgLogIn)
	assert.Contains(t, out, "Welcome, bob!")
	assert.Equal(t, []string{"hunter22"}, ta.auth.passwords)
	assert.True(t, ta.isComplete(), "completion refreshed after login")
	assert.Equal(t, "(bob) ", ta.getStatus())
}

func TestLogin_WrongPassword(t *testing.T) {
	ta := newTestApp(t)
	ta.auth.loggedIn = false
	ta.auth.loginErr = &client.APIError{Status: http.StatusUnauthorized, Message: "invalid credentials"}

	out := ta.run("login", "bob", "nope")
	assert.Contains(t, out, "Wrong username or password.")
	assert.False(t, ta.auth.LoggedIn())
}

func TestRegister(t *testing.T) {
	ta := newTestApp(t)
	ta.auth.loggedIn = false

	out := ta.run("register", "carol", "secret1")
	assert.Contains(t, out, "Account created.")
	assert.Equal(t, []string{"secret1"}, ta.auth.passwords)
}

func TestLogout_StopsAudio(t *testing.T) {
	ta := newTestApp(t)
	ta.sentences.list = []*models.Sentence{{ID: "s1", Text: "I am calm", HasAudio: true}}
	ta.background.url = "https://youtu.be/dQw4w9WgXcQ"

	out := ta.run("play 1 forever", "logout", "sentences")

	assert.Equal(t, 1, ta.auth.logouts)
	assert.Equal(t, 1, ta.player.stops)
	assert.False(t, ta.background.Playing())
	assert.Equal(t, playback.Idle, ta.controller.Status().State)
	assert.Contains(t, out, "Logged out.")
	assert.Contains(t, out, msgLogIn)
}

func TestSentences_WriteComposeEditDelete(t *testing.T) {
	ta := newTestApp(t)
	ta.sentences.list = []*models.Sentence{
		{ID: "s2", Text: "I am brave", HasAudio: true},
		{ID: "s1", Text: "I am kind"},
	}

	out := ta.run("sentences", "edit 2 I am very kind", "delete 1", "delete 1", "sentences", "delete 5")
	assert.Contains(t, out, " 1. ♪ I am brave\n")
	assert.Contains(t, out, " 2.   I am kind\n")
	assert.Contains(t, out, "Updated: I am very kind")
	assert.Equal(t, []string{"s2", "s1"}, ta.sentences.deleted)
	assert.Contains(t, out, "No affirmations yet.")
	assert.Contains(t, out, "There is no affirmation #5.")

	out = ta.run("write I am enough", "compose", "a garden", "", "calm", "patient", "sentences")
	assert.Contains(t, out, "Saved: I am enough")
	assert.Contains(t, out, "Saved: I am patient and I am feeling calm now that I have a garden.")
	assert.Contains(t, out, "A value is required.")
	assert.Contains(t, out, " 2.   I am enough\n")

	out = ta.run("edit x", "delete")
	assert.Contains(t, out, `"x" is not an affirmation number`)
	assert.Contains(t, out, "Usage: delete <n>")
}

func TestSentences_CreateFailure(t *testing.T) {
	ta := newTestApp(t)
	ta.sentences.createErr = client.ErrUnavailable

	out := ta.run("write hello")
	assert.Contains(t, out, "The server is unavailable. Please try again.")
}

func TestDelete_StopsPlayingClip(t *testing.T) {
	ta := newTestApp(t)
	ta.sentences.list = []*models.Sentence{{ID: "s1", Text: "I am calm", HasAudio: true}}

	ta.run("play 1", "delete 1")
	assert.Equal(t, []string{"s1"}, ta.player.played)
	assert.Equal(t, 1, ta.player.stops)
	assert.Equal(t, playback.Idle, ta.controller.Status().State)
}

func TestAttachAndRecord(t *testing.T) {
	ta := newTestApp(t)
	ta.sentences.list = []*models.Sentence{{ID: "s1", Text: "I am calm"}}

	out := ta.run("attach 1 my voice.webm", "record 1 5", "record 1 0", "record 1")
	assert.Equal(t, "my voice.webm", ta.sentences.attached["s1"])
	assert.Equal(t, []byte("OggS"), ta.sentences.recorded["s1"])
	assert.Equal(t, []time.Duration{5 * time.Second}, ta.recorder.seconds)
	assert.Contains(t, out, "Audio attached.")
	assert.Contains(t, out, "Recording for 5 seconds...")
	assert.Contains(t, out, "Recording saved.")
	assert.Contains(t, out, "Seconds must be between 1 and 300.")
	assert.Contains(t, out, "Usage: record <n> <seconds>")

	ta.recorder.supported = false
	out = ta.run("record 1 5")
	assert.Contains(t, out, "Recording is not supported on this device.")
}

func TestPlay(t *testing.T) {
	ta := newTestApp(t)
	ta.sentences.list = []*models.Sentence{
		{ID: "s1", Text: "I am calm", HasAudio: true},
		{ID: "s2", Text: "I am silent"},
	}

	out := ta.run("play 1 10min", "play 2", "play 1 sometimes", "stop", "stop")

	assert.Equal(t, []string{"s1"}, ta.player.played)
	assert.Equal(t, 1, ta.player.stops)
	assert.Contains(t, out, "[playing-one, repeat 10min] I am calm")
	assert.Contains(t, out, "has no audio yet")
	assert.Contains(t, out, `unknown repeat "sometimes"`)
	assert.Contains(t, out, "[playback stopped]")
	assert.Contains(t, out, "Nothing is playing.")
}

func TestPlayAll(t *testing.T) {
	ta := newTestApp(t)
	ta.sentences.list = []*models.Sentence{
		{ID: "s1", Text: "silent"},
		{ID: "s2", Text: "I am calm", HasAudio: true},
		{ID: "s3", Text: "I am strong", HasAudio: true},
	}

	out := ta.run("playall forever")
	assert.Equal(t, []string{"s2"}, ta.player.played)
	assert.Contains(t, out, "[playing-all, repeat forever] I am calm")

	ta.sentences.list = []*models.Sentence{{ID: "s1", Text: "silent"}}
	out = ta.run("playall")
	assert.Contains(t, out, "Nothing to play")
	assert.Equal(t, playback.PlayingAll, ta.controller.Status().State, "failed play-all keeps the current playback")

	ta.controller.Stop()
}

func TestBackgroundAudio(t *testing.T) {
	ta := newTestApp(t)

	out := ta.run("bg https://example.com/video", "bg https://youtu.be/dQw4w9WgXcQ", "volume 150", "volume 40", "volume", "bgstop", "bgstop")

	assert.Contains(t, out, "Invalid YouTube URL")
	assert.Contains(t, out, "Background audio playing at volume 100.")
	assert.Contains(t, out, "volume must be between 0 and 100")
	assert.Contains(t, out, "Volume: 40")
	assert.Contains(t, out, "Background audio stopped.")
	assert.Contains(t, out, "No background audio is playing.")
}

func TestWatchServer(t *testing.T) {
	ta := newTestApp(t)
	ta.auth.pingErr = errBoom

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ta.WatchServer(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return ta.getStatus() == "(alice, server unreachable) " }, time.Second, 5*time.Millisecond)

	ta.auth.mu.Lock()
	ta.auth.pingErr = nil
	ta.auth.mu.Unlock()
	require.Eventually(t, func() bool { return ta.getStatus() == "(alice) " }, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	out := ta.output()
	assert.Equal(t, 1, strings.Count(out, msgUnreachable))
	assert.Equal(t, 1, strings.Count(out, msgReachable))
	assert.NotContains(t, out, "mode")
}

func TestWatchServer_SilentWhileReachable(t *testing.T) {
	ta := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	ta.pingServer(ctx)
	ta.pingServer(ctx)
	cancel()

	assert.Equal(t, "(alice) ", ta.getStatus())
	assert.Empty(t, ta.output())
}

func TestRestore(t *testing.T) {
	ta := newTestApp(t)
	ta.auth.loggedIn = false
	ta.auth.restore = true
	ta.journal.today.Count, ta.journal.today.Complete = 10, true

	ta.restore(context.Background())
	assert.Contains(t, ta.buf.String(), "Welcome back, alice!")
	assert.True(t, ta.isComplete())

	ta = newTestApp(t)
	ta.auth.loggedIn = false
	ta.restore(context.Background())
	assert.Contains(t, ta.buf.String(), "Type 'login' or 'register' to begin.")
}
