package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/leeya018/gratitudes/internal/client/audio"
	"github.com/leeya018/gratitudes/internal/client/client"
	"github.com/leeya018/gratitudes/internal/client/models"
	"github.com/leeya018/gratitudes/internal/client/playback"
	"github.com/leeya018/gratitudes/internal/common"
	"github.com/leeya018/gratitudes/internal/filex"
	"github.com/leeya018/gratitudes/internal/logging"
	"github.com/leeya018/gratitudes/internal/netx"
)

// DefaultMaxAudioBytes caps uploads and downloads of a single clip.
const DefaultMaxAudioBytes = 10 << 20

type AffirmationService interface {
	List(ctx context.Context) ([]*models.Sentence, error)
	Create(ctx context.Context, text string) (*models.Sentence, error)
	Compose(ctx context.Context, target, emotions, characters string) (*models.Sentence, error)
	Edit(ctx context.Context, id, text string) (*models.Sentence, error)
	Delete(ctx context.Context, id string) error
	AttachFile(ctx context.Context, id, path string) (*models.Sentence, error)
	AttachRecording(ctx context.Context, id string, data []byte) (*models.Sentence, error)
	Clip(ctx context.Context, s *models.Sentence) (playback.Clip, error)
	Clips(ctx context.Context, list []*models.Sentence) ([]playback.Clip, error)
}

type affirmationService struct {
	client   client.Client
	http     *http.Client
	cacheDir string
	maxBytes int64
	logger   logging.Logger
}

// NewAffirmationService caches downloaded clips under cacheDir. httpClient
// fetches presigned audio URLs directly from object storage.
func NewAffirmationService(c client.Client, httpClient *http.Client, cacheDir string, maxBytes int64, logger logging.Logger) AffirmationService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAudioBytes
	}
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "gratitudes-audio")
	}
	return &affirmationService{client: c, http: httpClient, cacheDir: cacheDir, maxBytes: maxBytes, logger: logger}
}

func (s *affirmationService) List(ctx context.Context) ([]*models.Sentence, error) {
	return s.client.Sentences(ctx)
}

func (s *affirmationService) Create(ctx context.Context, text string) (*models.Sentence, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.NewValidationError("sentence text is required")
	}
	return s.client.CreateSentence(ctx, text)
}

func (s *affirmationService) Compose(ctx context.Context, target, emotions, characters string) (*models.Sentence, error) {
	if strings.TrimSpace(target) == "" || strings.TrimSpace(emotions) == "" || strings.TrimSpace(characters) == "" {
		return nil, common.NewValidationError("target, emotions and characters are all required")
	}
	return s.client.ComposeSentence(ctx, target, emotions, characters)
}

func (s *affirmationService) Edit(ctx context.Context, id, text string) (*models.Sentence, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.NewValidationError("sentence text is required")
	}
	return s.client.UpdateSentence(ctx, id, text)
}

// Delete is idempotent: a sentence that is already gone counts as deleted.
func (s *affirmationService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteSentence(ctx, id); err != nil && !isNotFound(err) {
		return err
	}
	_ = os.Remove(s.cachePath(id))
	return nil
}

// AttachFile uploads an audio file, guessing its type from the extension.
func (s *affirmationService) AttachFile(ctx context.Context, id, path string) (*models.Sentence, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}
	if info.Size() > s.maxBytes {
		return nil, common.ErrAudioTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	return s.attach(ctx, id, audioContentType(path), data)
}

var audioTypes = map[string]string{
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
}

// audioContentType guesses from the extension, defaulting to the recorder's
// format when the type is unknown or not audio.
func audioContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioTypes[ext]; ok {
		return t
	}
	t := mime.TypeByExtension(ext)
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	if strings.HasPrefix(t, "audio/") {
		return t
	}
	return audio.RecordingContentType
}

func (s *affirmationService) AttachRecording(ctx context.Context, id string, data []byte) (*models.Sentence, error) {
	return s.attach(ctx, id, audio.RecordingContentType, data)
}

func (s *affirmationService) attach(ctx context.Context, id, contentType string, data []byte) (*models.Sentence, error) {
	if len(data) == 0 {
		return nil, common.ErrInvalidAudio
	}
	if int64(len(data)) > s.maxBytes {
		return nil, common.ErrAudioTooLarge
	}

	updated, err := s.client.AttachAudio(ctx, id, EncodeDataURL(contentType, data))
	if err != nil {
		return nil, err
	}
	_ = os.Remove(s.cachePath(id))
	return updated, nil
}

// Clip downloads the sentence's audio into the cache and returns a playable
// clip. Sentences without audio yield a clip without a path.
func (s *affirmationService) Clip(ctx context.Context, sentence *models.Sentence) (playback.Clip, error) {
	clip := playback.Clip{ID: sentence.ID, Label: sentence.Text}
	if !sentence.HasAudio {
		return clip, nil
	}

	data, err := s.fetch(ctx, sentence)
	if err != nil {
		return clip, err
	}

	if _, err := filex.EnsureSubDir(s.cacheDir, ""); err != nil {
		return clip, err
	}
	path := s.cachePath(sentence.ID)
	if err := filex.WriteFileAtomic(path, data); err != nil {
		return clip, err
	}
	clip.Path = path
	return clip, nil
}

// Clips prepares a play-all queue. A clip whose audio cannot be fetched is
// kept without audio so the controller skips it.
func (s *affirmationService) Clips(ctx context.Context, list []*models.Sentence) ([]playback.Clip, error) {
	clips := make([]playback.Clip, 0, len(list))
	for _, sentence := range list {
		clip, err := s.Clip(ctx, sentence)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn(ctx, "skipping clip", "sentence_id", sentence.ID, "error", err)
			clip.Path = ""
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// fetch prefers the presigned URL and falls back to the API.
func (s *affirmationService) fetch(ctx context.Context, sentence *models.Sentence) ([]byte, error) {
	if sentence.AudioURL != "" && s.http != nil {
		data, err := netx.Download(ctx, s.http, sentence.AudioURL, s.maxBytes)
		if err == nil {
			return data, nil
		}
		s.logger.Debug(ctx, "presigned download failed, using API", "sentence_id", sentence.ID, "error", err)
	}
	return s.client.Audio(ctx, sentence.ID, s.maxBytes)
}

func (s *affirmationService) cachePath(id string) string {
	return filepath.Join(s.cacheDir, filepath.Base(id)+".audio")
}

// EncodeDataURL renders data as a base64 data URL.
func EncodeDataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}
