package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/leeya018/gratitudes/internal/client/audio"
	"github.com/leeya018/gratitudes/internal/client/client"
	"github.com/leeya018/gratitudes/internal/client/config"
	"github.com/leeya018/gratitudes/internal/client/models"
	"github.com/leeya018/gratitudes/internal/client/playback"
	"github.com/leeya018/gratitudes/internal/client/services"
	"github.com/leeya018/gratitudes/internal/client/youtube"
	"github.com/leeya018/gratitudes/internal/filex"
	"github.com/leeya018/gratitudes/internal/logging"
)

// reachability is the last known result of pinging the server.
type reachability int

const (
	reachUnknown reachability = iota
	reachOK
	reachFailed
)

const (
	pingInterval = 30 * time.Second
	pingTimeout  = 3 * time.Second
)

type recorder interface {
	Supported() bool
	Record(ctx context.Context, d time.Duration) ([]byte, error)
}

type background interface {
	Start(ctx context.Context, url string) error
	Stop()
	SetVolume(ctx context.Context, v int) error
	Volume() int
	Playing() bool
}

type App struct {
	authService  services.AuthService
	journal      services.JournalService
	affirmations services.AffirmationService
	controller   *playback.Controller
	recorder     recorder
	background   background
	logger       logging.Logger
	db           *sql.DB

	reader *bufio.Reader
	out    io.Writer

	mu        sync.Mutex
	reach     reachability
	complete  bool
	sentences []*models.Sentence
}

// NewApp opens the session database and wires the services, the playback
// controller and the external audio tools.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(logging.FormatText, os.Stderr)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	cacheDir, err := filex.EnsureSubDir("", "gratitudes-audio")
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerEndpointAddr, c.RequestTimeout)
	downloads := &http.Client{Timeout: c.RequestTimeout}

	a := &App{
		authService:  services.NewAuthService(apiClient, db, logger),
		journal:      services.NewJournalService(apiClient),
		affirmations: services.NewAffirmationService(apiClient, downloads, cacheDir, services.DefaultMaxAudioBytes, logger),
		recorder:     audio.NewRecorder(c.RecorderCommand, ""),
		background:   youtube.NewBackground(c.BackgroundCommand),
		logger:       logger,
		db:           db,
		reader:       bufio.NewReader(os.Stdin),
		out:          &syncWriter{w: os.Stdout},
	}
	a.controller = playback.NewController(audio.NewExecPlayer(c.PlayerCommand), playback.RealClock(), a.playbackOptions())
	return a, nil
}

// Run restores the saved session, starts the connectivity watcher and
// blocks in the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.shutdown(ctx)

	fmt.Fprintln(a.out, "Welcome to gratitudes (type 'help' for commands)")
	a.restore(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.WatchServer(watchCtx, pingInterval)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) restore(ctx context.Context) {
	ok, err := a.authService.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to restore session", "error", err)
	}
	if !ok {
		fmt.Fprintln(a.out, "Type 'login' or 'register' to begin.")
		return
	}
	fmt.Fprintf(a.out, "Welcome back, %s!\n", a.authService.Username())
	a.refreshToday(ctx)
}

func (a *App) shutdown(ctx context.Context) {
	a.controller.Stop()
	a.background.Stop()
	if err := a.authService.Close(ctx); err != nil {
		a.logger.Warn(ctx, "failed to close api client", "error", err)
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.LoggedIn()
}

func (a *App) setReachability(r reachability) {
	a.mu.Lock()
	prev := a.reach
	a.reach = r
	a.mu.Unlock()

	switch {
	case r == reachFailed && prev != reachFailed:
		fmt.Fprintln(a.out, "\n"+msgUnreachable)
	case r == reachOK && prev == reachFailed:
		fmt.Fprintln(a.out, "\n"+msgReachable)
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	reach := a.reach
	a.mu.Unlock()

	var parts []string
	if name := a.authService.Username(); name != "" && a.isLoggedIn() {
		parts = append(parts, name)
	}
	if reach == reachFailed {
		parts = append(parts, "server unreachable")
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ") "
}

// WatchServer pings the server every interval and reports when it becomes
// unreachable or comes back, until ctx is done.
func (a *App) WatchServer(ctx context.Context, interval time.Duration) {
	a.pingServer(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.pingServer(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) pingServer(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.authService.Ping(pingCtx)
	cancel()
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.setReachability(reachFailed)
		return
	}
	a.setReachability(reachOK)
}

// commands is the REPL command table. add is no longer offered once today's
// entries are complete.
func (a *App) commands() []command {
	cmds := []command{
		{name: "register", usage: "register", about: "create an account", public: true, action: "register", run: a.Register},
		{name: "login", usage: "login", about: "log in", public: true, action: "log in", run: a.Login},
		{name: "logout", usage: "logout", about: "log out", action: "log out", run: a.Logout},
		{name: "add", usage: "add [text]", about: "write a gratitude for today", hidden: a.isComplete(), action: "save your gratitude", run: a.Add},
	}
	return append(cmds,
		command{name: "today", usage: "today", about: "show today's gratitudes", action: "load today's gratitudes", run: a.Today},
		command{name: "count", usage: "count", about: "how many gratitudes today", action: "load the count", run: a.Count},
		command{name: "dates", usage: "dates", about: "days with gratitudes", action: "load your dates", run: a.Dates},
		command{name: "show", usage: "show <YYYY-MM-DD>", about: "gratitudes of a day", action: "load that day", run: a.Show},
		command{name: "sentences", usage: "sentences", about: "list affirmations", action: "load your affirmations", run: a.Sentences},
		command{name: "write", usage: "write [text]", about: "write an affirmation", action: "save your affirmation", run: a.Write},
		command{name: "compose", usage: "compose", about: "build an affirmation from a goal", action: "save your affirmation", run: a.Compose},
		command{name: "edit", usage: "edit <n>", about: "change an affirmation's text", action: "update the affirmation", run: a.Edit},
		command{name: "delete", usage: "delete <n>", about: "delete an affirmation", action: "delete the affirmation", run: a.Delete},
		command{name: "attach", usage: "attach <n> <file>", about: "attach an audio file", action: "attach the audio", run: a.Attach},
		command{name: "record", usage: "record <n> <seconds>", about: "record audio for an affirmation", action: "save the recording", run: a.Record},
		command{name: "play", usage: "play <n> [repeat]", about: "play one affirmation", action: "play the affirmation", run: a.Play},
		command{name: "playall", usage: "playall [repeat]", about: "play every affirmation with audio", action: "play your affirmations", run: a.PlayAll},
		command{name: "stop", usage: "stop", about: "stop playback", action: "stop playback", run: a.Stop},
		command{name: "bg", usage: "bg <youtube-url>", about: "play background audio", action: "start background audio", run: a.BackgroundStart},
		command{name: "bgstop", usage: "bgstop", about: "stop background audio", action: "stop background audio", run: a.BackgroundStop},
		command{name: "volume", usage: "volume [0-100]", about: "background volume", action: "change the volume", run: a.Volume},
	)
}

// syncWriter serialises output from the REPL and the player callbacks.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
