// Package filesystem provides the filesystem abstraction used to store
// screenshots.
//
// Key interfaces:
//   - FileSystem: directory creation, file writes and reads
//   - FileInfo: file metadata similar to os.FileInfo
//
// Implementations:
//   - OSFileSystem: Production implementation using OS filesystem
//   - MemoryFileSystem: In-memory implementation for testing
package filesystem
