package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leeya018/gratitudes/internal/client/audio"
	"github.com/leeya018/gratitudes/internal/client/models"
	"github.com/leeya018/gratitudes/internal/client/playback"
	"github.com/leeya018/gratitudes/internal/client/youtube"
	"github.com/leeya018/gratitudes/internal/common"
	"github.com/leeya018/gratitudes/internal/logging"
)

var errBoom = errors.New("boom")

type fakeAuth struct {
	mu        sync.Mutex
	loggedIn  bool
	username  string
	loginErr  error
	restore   bool
	pingErr   error
	logouts   int
	passwords []string
}

func (f *fakeAuth) Register(_ context.Context, username string, password []byte) error {
	f.passwords = append(f.passwords, string(password))
	return nil
}

func (f *fakeAuth) Login(_ context.Context, username string, password []byte) error {
	f.passwords = append(f.passwords, string(password))
	if f.loginErr != nil {
		return f.loginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn, f.username = true, username
	return nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	f.loggedIn, f.username = false, ""
	return nil
}

func (f *fakeAuth) Restore(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.restore {
		f.loggedIn = true
	}
	return f.restore, nil
}

func (f *fakeAuth) LoggedIn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loggedIn
}

func (f *fakeAuth) Username() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.username
}

func (f *fakeAuth) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeAuth) Close(context.Context) error { return nil }

// fakeJournal enforces the daily limit the way the server does.
type fakeJournal struct {
	today    models.Today
	added    []string
	addErr   error
	todayErr error
	dates    []string
}

func (f *fakeJournal) Add(_ context.Context, text string) (int, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	if strings.TrimSpace(text) == "" {
		return 0, common.NewValidationError("Gratitude is required")
	}
	if f.today.Count >= f.today.Limit {
		return f.today.Count, common.ErrLimitReached
	}
	f.added = append(f.added, text)
	f.today.Gratitudes = append(f.today.Gratitudes, &models.Gratitude{Text: text})
	f.today.Count++
	f.today.Complete = f.today.Count >= f.today.Limit
	return f.today.Count, nil
}

func (f *fakeJournal) Today(context.Context) (*models.Today, error) {
	if f.todayErr != nil {
		return nil, f.todayErr
	}
	t := f.today
	return &t, nil
}

func (f *fakeJournal) Count(context.Context) (int, error) { return f.today.Count, nil }

func (f *fakeJournal) Dates(context.Context) ([]string, error) { return f.dates, nil }

func (f *fakeJournal) ForDate(_ context.Context, date string) ([]*models.Gratitude, error) {
	if _, err := time.Parse(common.DateLayout, date); err != nil {
		return nil, common.NewValidationError("invalid date, expected YYYY-MM-DD")
	}
	if date == f.today.Date {
		return f.today.Gratitudes, nil
	}
	return nil, nil
}

type fakeAffirmations struct {
	list      []*models.Sentence
	deleted   []string
	attached  map[string]string
	recorded  map[string][]byte
	createErr error
}

func (f *fakeAffirmations) List(context.Context) ([]*models.Sentence, error) {
	return append([]*models.Sentence(nil), f.list...), nil
}

func (f *fakeAffirmations) Create(_ context.Context, text string) (*models.Sentence, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	s := &models.Sentence{ID: "new", Text: text}
	f.list = append([]*models.Sentence{s}, f.list...)
	return s, nil
}

func (f *fakeAffirmations) Compose(ctx context.Context, target, emotions, characters string) (*models.Sentence, error) {
	return f.Create(ctx, "I am "+characters+" and I am feeling "+emotions+" now that I have "+target+".")
}

func (f *fakeAffirmations) Edit(_ context.Context, id, text string) (*models.Sentence, error) {
	for _, s := range f.list {
		if s.ID == id {
			s.Text = text
			return s, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAffirmations) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	kept := f.list[:0]
	for _, s := range f.list {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	f.list = kept
	return nil
}

func (f *fakeAffirmations) AttachFile(_ context.Context, id, path string) (*models.Sentence, error) {
	f.attached[id] = path
	return f.withAudio(id)
}

func (f *fakeAffirmations) AttachRecording(_ context.Context, id string, data []byte) (*models.Sentence, error) {
	f.recorded[id] = data
	return f.withAudio(id)
}

func (f *fakeAffirmations) withAudio(id string) (*models.Sentence, error) {
	for _, s := range f.list {
		if s.ID == id {
			s.HasAudio = true
			return s, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAffirmations) Clip(_ context.Context, s *models.Sentence) (playback.Clip, error) {
	clip := playback.Clip{ID: s.ID, Label: s.Text}
	if s.HasAudio {
		clip.Path = "/cache/" + s.ID + ".audio"
	}
	return clip, nil
}

func (f *fakeAffirmations) Clips(ctx context.Context, list []*models.Sentence) ([]playback.Clip, error) {
	var clips []playback.Clip
	for _, s := range list {
		c, _ := f.Clip(ctx, s)
		clips = append(clips, c)
	}
	return clips, nil
}

type fakePlayer struct {
	mu     sync.Mutex
	played []string
	stops  int
}

func (p *fakePlayer) Play(_ context.Context, clip playback.Clip, _ func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, clip.ID)
	return nil
}

func (p *fakePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
}

type fakeRecorder struct {
	supported bool
	seconds   []time.Duration
}

func (r *fakeRecorder) Supported() bool { return r.supported }

func (r *fakeRecorder) Record(_ context.Context, d time.Duration) ([]byte, error) {
	if !r.supported {
		return nil, audio.ErrUnsupported
	}
	r.seconds = append(r.seconds, d)
	return []byte("OggS"), nil
}

type fakeBackground struct {
	url    string
	volume int
}

func (b *fakeBackground) Start(_ context.Context, url string) error {
	if _, err := youtube.VideoID(url); err != nil {
		return err
	}
	b.url = url
	return nil
}

func (b *fakeBackground) Stop() { b.url = "" }

func (b *fakeBackground) SetVolume(_ context.Context, v int) error {
	if v < 0 || v > 100 {
		return youtube.ErrInvalidVolume
	}
	b.volume = v
	return nil
}

func (b *fakeBackground) Volume() int   { return b.volume }
func (b *fakeBackground) Playing() bool { return b.url != "" }

type testApp struct {
	*App
	auth       *fakeAuth
	journal    *fakeJournal
	sentences  *fakeAffirmations
	player     *fakePlayer
	recorder   *fakeRecorder
	background *fakeBackground
	buf        *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	origTerm := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = origTerm })

	ta := &testApp{
		auth:       &fakeAuth{loggedIn: true, username: "alice"},
		journal:    &fakeJournal{today: models.Today{Date: "2026-10-15", Limit: 10}},
		sentences:  &fakeAffirmations{attached: map[string]string{}, recorded: map[string][]byte{}},
		player:     &fakePlayer{},
		recorder:   &fakeRecorder{supported: true},
		background: &fakeBackground{volume: youtube.DefaultVolume},
		buf:        &bytes.Buffer{},
	}
	ta.App = &App{
		authService:  ta.auth,
		journal:      ta.journal,
		affirmations: ta.sentences,
		recorder:     ta.recorder,
		background:   ta.background,
		logger:       logging.Nop(),
		out:          &syncWriter{w: ta.buf},
	}
	ta.controller = playback.NewController(ta.player, nil, ta.playbackOptions())
	return ta
}

// output returns what has been printed so far, including from background
// goroutines.
func (ta *testApp) output() string {
	w := ta.out.(*syncWriter)
	w.mu.Lock()
	defer w.mu.Unlock()
	return ta.buf.String()
}

// run feeds lines to the REPL and returns everything it printed.
func (ta *testApp) run(lines ...string) string {
	ta.buf.Reset()
	ta.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	runREPL(context.Background(), ta.App, ta.getStatus, ta.reader, ta.out)
	return ta.buf.String()
}
