package sync

import (
	"io/fs"
	"time"
)

// Task is a single file scheduled for upload: the local path, the derived
// remote key, and a snapshot of the file's stat at discovery time. A task
// is consumed exactly once, either by an upload or by the up-to-date
// short-circuit.
type Task struct {
	// Path is the absolute local path.
	Path string
	// Key is the destination object key.
	Key string
	// ModTime is the local modification time at discovery.
	ModTime time.Time
	// Size is the file size in bytes at discovery.
	Size int64
}

func newTask(path, key string, info fs.FileInfo) Task {
	return Task{
		Path:    path,
		Key:     key,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}
}
