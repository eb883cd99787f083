package domain

import "time"

// Snapshot describes one backup copy of the hosts file, taken before a write.
type Snapshot struct {
	Path      string    // absolute path of the backup file
	CreatedAt time.Time // when the backup was taken
	Size      int64     // size in bytes of the copied file
}
