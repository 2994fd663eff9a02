package storage

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
)

// ReadJSON decodes the blob under key into a T. Missing keys, read errors and
// corrupt JSON all yield the zero value; only the latter two are logged.
func ReadJSON[T any](s Store, log zerolog.Logger, key string) T {
	var v T
	data, err := s.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("key", key).Msg("state read failed, using default")
		}
		return v
	}
	if err := json.Unmarshal(data, &v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("state is corrupt, using default")
		var zero T
		return zero
	}
	return v
}

// WriteJSON encodes v and stores it under key. Failures are logged and
// swallowed; the return value reports whether the write landed.
func WriteJSON(s Store, log zerolog.Logger, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("state encode failed, write skipped")
		return false
	}
	if err := s.Set(key, data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("state write failed")
		return false
	}
	return true
}
