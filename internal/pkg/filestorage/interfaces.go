package filestorage

import "mime/multipart"

// DocumentStorage stores opaque uploads and returns a stable reference URL.
// The selection workflow only ever keeps the reference, never the bytes.
type DocumentStorage interface {
	// SaveFile stores an upload under the given subdirectory and returns
	// the URL the file is reachable at.
	SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a previously stored file by its reference URL.
	DeleteFile(fileURL string) error
}
