package order

import (
	"errors"
	"time"

	"marketplace/internal/pkg/errs"
)

// File is attachment metadata. File bytes live in an external store and are never
// inspected here.
type File struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Validate checks that the metadata identifies a file.
func (f File) Validate() error {
	var err error
	if f.ID == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("file id"))
	}
	if f.Name == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("file name"))
	}
	if f.Size < 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("file size", f.Size, 0, "unbounded"))
	}
	return err
}

func validateFiles(files []File) error {
	var err error
	for _, f := range files {
		err = errors.Join(err, f.Validate())
	}
	return err
}
