package storage

import "errors"

// ErrExists is returned when a save would overwrite an object that is already stored.
var ErrExists = errors.New("storage: object already exists")

func joinURL(base, name string) string {
	if base == "" {
		return name
	}
	return base + "/" + name
}
