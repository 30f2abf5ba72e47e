package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/leeya018/gratitudes/internal/common"
	"github.com/leeya018/gratitudes/internal/logging"
	"github.com/leeya018/gratitudes/internal/server/blobs"
	"github.com/leeya018/gratitudes/internal/server/models"
	"github.com/leeya018/gratitudes/internal/server/repositories/repomanager"
)

const (
	// MaxSentenceLength bounds affirmation text, in characters.
	MaxSentenceLength = 500
	audioURLValidity  = 15 * time.Minute
)

// SentenceService manages affirmation sentences and their audio.
type SentenceService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	blobs         blobs.Store
	maxAudioBytes int64
	log           logging.Logger
}

func NewSentenceService(db *sql.DB, m repomanager.RepositoryManager, store blobs.Store, maxAudioBytes int64, log logging.Logger) *SentenceService {
	return &SentenceService{
		db:            db,
		repomanager:   m,
		blobs:         store,
		maxAudioBytes: maxAudioBytes,
		log:           log,
	}
}

// Compose builds an affirmation from the three form answers.
func Compose(target, emotions, characters string) (string, error) {
	target = strings.TrimSpace(target)
	emotions = strings.TrimSpace(emotions)
	characters = strings.TrimSpace(characters)
	if target == "" || emotions == "" || characters == "" {
		return "", common.NewValidationError("target, emotions and characters are all required")
	}
	return fmt.Sprintf("I am %s and I am feeling %s now that I have %s.", characters, emotions, target), nil
}

func validateSentence(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", common.NewValidationError("sentence text is required")
	}
	if utf8.RuneCountInString(text) > MaxSentenceLength {
		return "", common.NewValidationError("sentence must be at most 500 characters")
	}
	return text, nil
}

// validID rejects ids that cannot name a row so they read as missing
// instead of reaching the database as malformed uuids.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return nil
}

func (s *SentenceService) Create(ctx context.Context, userID, text string) (*models.Sentence, error) {
	text, err := validateSentence(text)
	if err != nil {
		return nil, err
	}
	out, err := s.repomanager.Sentences(s.db).Create(ctx, &models.Sentence{UserID: userID, Text: text})
	if err != nil {
		s.log.Error(ctx, "create sentence failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return out, nil
}

// List returns the user's sentences, most recent first. Unlike journal
// reads, failures are reported.
func (s *SentenceService) List(ctx context.Context, userID string) ([]*models.Sentence, error) {
	list, err := s.repomanager.Sentences(s.db).ListByUser(ctx, userID)
	if err != nil {
		s.log.Error(ctx, "list sentences failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

func (s *SentenceService) Get(ctx context.Context, userID, id string) (*models.Sentence, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	out, err := s.repomanager.Sentences(s.db).Get(ctx, userID, id)
	return out, s.mapErr(ctx, "get sentence", err)
}

func (s *SentenceService) UpdateText(ctx context.Context, userID, id, text string) (*models.Sentence, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	text, err := validateSentence(text)
	if err != nil {
		return nil, err
	}
	out, err := s.repomanager.Sentences(s.db).UpdateText(ctx, userID, id, text)
	return out, s.mapErr(ctx, "update sentence", err)
}

// AttachAudio decodes payload, stores it and points the sentence at it.
// A previously attached recording is removed best-effort.
func (s *SentenceService) AttachAudio(ctx context.Context, userID, id, payload string) (*models.Sentence, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	data, contentType, err := DecodeAudio(payload, s.maxAudioBytes)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Sentences(s.db)
	current, err := repo.Get(ctx, userID, id)
	if err != nil {
		return nil, s.mapErr(ctx, "get sentence", err)
	}
	oldKey := current.AudioKey

	key := blobs.SentenceAudioKey(userID, id)
	if err := s.blobs.Put(ctx, key, contentType, data); err != nil {
		s.log.Error(ctx, "store audio failed", "sentence_id", id, "error", err)
		return nil, common.ErrorInternal
	}

	updated, err := repo.SetAudio(ctx, userID, id, key, contentType)
	if err != nil {
		s.removeBlob(ctx, key)
		return nil, s.mapErr(ctx, "set sentence audio", err)
	}

	if oldKey != "" && oldKey != key {
		s.removeBlob(ctx, oldKey)
	}
	return updated, nil
}

// Audio returns the stored recording of a sentence.
func (s *SentenceService) Audio(ctx context.Context, userID, id string) ([]byte, string, error) {
	sentence, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}
	if !sentence.HasAudio() {
		return nil, "", common.ErrorNotFound
	}
	data, contentType, err := s.blobs.Get(ctx, sentence.AudioKey)
	if err != nil {
		return nil, "", s.mapErr(ctx, "load audio", err)
	}
	if contentType == "" {
		contentType = sentence.AudioContentType
	}
	return data, contentType, nil
}

// AudioURL returns a short-lived presigned URL for the sentence's audio.
func (s *SentenceService) AudioURL(ctx context.Context, sentence *models.Sentence) (string, error) {
	if !sentence.HasAudio() {
		return "", common.ErrorNotFound
	}
	return s.blobs.PresignGet(ctx, sentence.AudioKey, audioURLValidity)
}

// Delete removes a sentence. Deleting a missing sentence succeeds.
func (s *SentenceService) Delete(ctx context.Context, userID, id string) error {
	if validID(id) != nil {
		return nil
	}
	removed, err := s.repomanager.Sentences(s.db).Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return s.mapErr(ctx, "delete sentence", err)
	}
	if removed.HasAudio() {
		s.removeBlob(ctx, removed.AudioKey)
	}
	return nil
}

func (s *SentenceService) removeBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "remove audio failed", "key", key, "error", err)
	}
}

func (s *SentenceService) mapErr(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	s.log.Error(ctx, op+" failed", "error", err)
	return common.ErrorInternal
}
