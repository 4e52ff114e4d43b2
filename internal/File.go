/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package internal

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// COMPRESSED_EXTENSION is appended to the name of compressed files
const COMPRESSED_EXTENSION = ".hz"

// FileData a basic structure encapsulating a file path and size
type FileData struct {
	FullPath string
	Path     string
	Name     string
	Size     int64
}

// NewFileData creates an instance of FileData from a file path and size
func NewFileData(fullPath string, size int64) *FileData {
	this := &FileData{}
	this.FullPath = fullPath
	this.Size = size
	this.Path, this.Name = filepath.Split(fullPath)
	return this
}

// SortFiles sorts by full path or, if 'bySize' is true, by parent directory
// then decreasing size (largest files get scheduled first).
func SortFiles(files []FileData, bySize bool) {
	slices.SortStableFunc(files, func(a, b FileData) int {
		if bySize == false {
			return strings.Compare(a.FullPath, b.FullPath)
		}

		if res := strings.Compare(a.Path, b.Path); res != 0 {
			return res
		}

		switch {
		case a.Size > b.Size:
			return -1
		case a.Size < b.Size:
			return 1
		default:
			return 0
		}
	})
}

func isDotFile(path string) bool {
	name := filepath.Base(path)
	return len(name) > 1 && name[0] == '.' && name != ".."
}

func accept(mode fs.FileMode, ignoreLinks bool) bool {
	return mode.IsRegular() || (ignoreLinks == false && mode&fs.ModeSymlink != 0)
}

// CreateFileList appends to 'fileList' the regular files (and symbolic links
// unless 'ignoreLinks') found at 'target'. Directories are scanned one level
// deep or, if 'isRecursive', entirely.
func CreateFileList(target string, fileList []FileData, isRecursive, ignoreLinks, ignoreDotFiles bool) ([]FileData, error) {
	fi, err := os.Lstat(target)

	if err != nil {
		return fileList, err
	}

	if ignoreDotFiles == true && isDotFile(target) {
		return fileList, nil
	}

	if fi.IsDir() == false {
		if accept(fi.Mode(), ignoreLinks) {
			fileList = append(fileList, *NewFileData(target, fi.Size()))
		}

		return fileList, nil
	}

	err = filepath.WalkDir(target, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path == target {
			return nil
		}

		if ignoreDotFiles == true && isDotFile(path) {
			if de.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if de.IsDir() {
			if isRecursive == false {
				return filepath.SkipDir
			}

			return nil
		}

		info, err := de.Info()

		if err != nil {
			return err
		}

		if accept(info.Mode(), ignoreLinks) {
			fileList = append(fileList, *NewFileData(path, info.Size()))
		}

		return nil
	})

	return fileList, err
}

// CompressedName returns the default name of the compressed version of 'input'
func CompressedName(input string) string {
	return input + COMPRESSED_EXTENSION
}

// DecompressedName returns the default name of the decompressed version of
// 'input': the name without the compressed extension if present, the name
// followed by ".out" otherwise.
func DecompressedName(input string) string {
	if strings.HasSuffix(input, COMPRESSED_EXTENSION) && len(input) > len(COMPRESSED_EXTENSION) {
		return strings.TrimSuffix(input, COMPRESSED_EXTENSION)
	}

	return input + ".out"
}

// Sorted list
var reservedNames = []string{"AUX", "COM0", "COM1", "COM2", "COM3", "COM4", "COM5", "COM6",
	"COM7", "COM8", "COM9", "COM¹", "COM²", "COM³", "CON", "LPT0", "LPT1", "LPT2",
	"LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9", "NUL", "PRN"}

// IsReservedName returns true if the name cannot be used for a file (Windows only)
func IsReservedName(fileName string) bool {
	if runtime.GOOS != "windows" {
		return false
	}

	_, found := slices.BinarySearch(reservedNames, strings.ToUpper(fileName))
	return found
}
