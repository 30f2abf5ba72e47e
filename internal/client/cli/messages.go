package cli

import (
	"errors"
	"fmt"

	"github.com/leeya018/gratitudes/internal/client/audio"
	"github.com/leeya018/gratitudes/internal/client/client"
	"github.com/leeya018/gratitudes/internal/client/playback"
	"github.com/leeya018/gratitudes/internal/client/youtube"
	"github.com/leeya018/gratitudes/internal/common"
)

const (
	msgLogIn    = "Please log in to continue."
	msgComplete = "You have written all of today's gratitudes. Come back tomorrow!"

	msgUnreachable = "The server is unreachable. Commands will fail until it is back."
	msgReachable   = "The server is reachable again."
)

// userMessage turns a handler error into the line shown to the user.
func userMessage(action string, err error) string {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return err.Error()
	case errors.Is(err, common.ErrLimitReached):
		return msgComplete
	case errors.Is(err, client.ErrUnauthorized):
		return "Your session has expired. " + msgLogIn
	case errors.Is(err, client.ErrUnavailable):
		return "The server is unavailable. Please try again."
	case errors.Is(err, client.ErrRateLimited):
		return "Too many requests. Please wait a moment and try again."
	case errors.Is(err, common.ErrorNotFound):
		return "Not found. Run 'sentences' to refresh the list."
	case errors.Is(err, common.ErrorAlreadyExists):
		return "That username is already taken."
	case errors.Is(err, common.ErrAudioTooLarge):
		return "The audio is too large."
	case errors.Is(err, common.ErrInvalidAudio):
		return "The audio could not be read."
	case errors.Is(err, audio.ErrUnsupported):
		return "Recording is not supported on this device."
	case errors.Is(err, audio.ErrCaptureFailed):
		return "Recording failed. Please try again."
	case errors.Is(err, audio.ErrNoPlayer):
		return "No audio player is available. Check the player command."
	case errors.Is(err, playback.ErrNoAudio):
		return "Nothing to play: no affirmation has audio yet."
	case errors.Is(err, youtube.ErrInvalidURL), errors.Is(err, youtube.ErrInvalidVolume):
		return err.Error()
	case errors.Is(err, youtube.ErrNoPlayer):
		return "No background player is available. Check the background command."
	}
	if action == "" {
		return fmt.Sprintf("Something went wrong: %v. Please try again.", err)
	}
	return fmt.Sprintf("Could not %s: %v. Please try again.", action, err)
}
