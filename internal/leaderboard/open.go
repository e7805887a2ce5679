package leaderboard

import "github.com/charmbracelet/log"

// Open picks the Service a frontend should use. A non-empty baseURL talks to
// a remote leaderboard; otherwise the board is kept in the file at path, or
// in memory when path is empty too.
func Open(baseURL, path string, size int, logger *log.Logger) (Service, error) {
	if baseURL != "" {
		return NewClient(baseURL, nil), nil
	}
	return OpenStore(path, size, logger)
}
