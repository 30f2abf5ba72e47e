package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/leeya018/gratitudes/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case common.ErrorNotFound:
		return e.Status == http.StatusNotFound
	case common.ErrorAlreadyExists:
		return e.Status == http.StatusConflict
	case common.ErrLimitReached:
		return e.Status == http.StatusBadRequest && e.Message == common.ErrLimitReached.Error()
	case common.ErrAudioTooLarge:
		return e.Status == http.StatusRequestEntityTooLarge
	}
	return false
}
