package io

import (
	"io"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// IMAGE_EXT is the file extension of a stored image.
const IMAGE_EXT = ".sac"

var imageName = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// CreateFS is a file system that files can be created in.
type CreateFS interface {
	// Create creates, or truncates, a file for writing.
	Create(name string) (file io.WriteCloser, err error)
}

// DirFS is a CreateFS rooted at an operating system directory.
type DirFS string

var _ CreateFS = DirFS("")

// Create creates the named file in the directory.
func (dir DirFS) Create(name string) (file io.WriteCloser, err error) {
	if !fs.ValidPath(name) {
		err = &fs.PathError{Op: "create", Path: name, Err: fs.ErrInvalid}
		return
	}

	file, err = os.Create(filepath.Join(string(dir), filepath.FromSlash(name)))
	return
}

// Depot holds assembled images by name. Images are opaque: the bytes
// put into the depot are the bytes returned by it, across a
// Marshal/Unmarshal round trip.
type Depot struct {
	Images map[string][]byte
}

// ValidName returns true if name can be used as an image name.
func ValidName(name string) bool {
	return imageName.MatchString(name) && !strings.Contains(name, "..")
}

// Put stores a copy of image under name.
func (depot *Depot) Put(name string, image []byte) (err error) {
	if !ValidName(name) {
		err = errors.Wrapf(ErrImageName, "%q", name)
		return
	}

	if depot.Images == nil {
		depot.Images = make(map[string][]byte)
	}
	depot.Images[name] = slices.Clone(image)
	return
}

// Get returns a copy of the image stored under name.
func (depot *Depot) Get(name string) (image []byte, err error) {
	data, ok := depot.Images[name]
	if !ok {
		err = errors.Wrapf(ErrImageMissing, "%q", name)
		return
	}

	image = slices.Clone(data)
	return
}

// Delete removes the image stored under name.
func (depot *Depot) Delete(name string) (err error) {
	if _, ok := depot.Images[name]; !ok {
		err = errors.Wrapf(ErrImageMissing, "%q", name)
		return
	}

	delete(depot.Images, name)
	return
}

// Names returns the sorted names of the stored images.
func (depot *Depot) Names() []string {
	return slices.Sorted(maps.Keys(depot.Images))
}

// Unmarshal loads every NAME.sac file at the top level of filesys.
func (depot *Depot) Unmarshal(filesys fs.FS) (err error) {
	entries, err := fs.ReadDir(filesys, ".")
	if err != nil {
		err = errors.Wrapf(err, "depot")
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != IMAGE_EXT {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), IMAGE_EXT)
		if !ValidName(name) {
			continue
		}

		var data []byte
		data, err = fs.ReadFile(filesys, entry.Name())
		if err != nil {
			err = errors.Wrapf(err, "depot: %v", entry.Name())
			return
		}

		err = depot.Put(name, data)
		if err != nil {
			return
		}
	}

	return
}

// Marshal writes each image to filesys as NAME.sac.
func (depot *Depot) Marshal(filesys CreateFS) (err error) {
	for _, name := range depot.Names() {
		err = writeImage(filesys, name+IMAGE_EXT, depot.Images[name])
		if err != nil {
			err = errors.Wrapf(err, "depot: %v", name)
			return
		}
	}

	return
}

func writeImage(filesys CreateFS, name string, image []byte) (err error) {
	file, err := filesys.Create(name)
	if err != nil {
		return
	}

	_, err = file.Write(image)
	if err != nil {
		file.Close()
		return
	}

	err = file.Close()
	return
}
