package models

import (
	"path/filepath"
	"strings"
)

// UploadedFile is a resume as received from the client. Its identity is the
// file name, not the content. Content is only carried until the text has
// been extracted; workspaces store the name and size.
type UploadedFile struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Content []byte `json:"-"`
}

// WithoutContent returns the file metadata alone.
func (f UploadedFile) WithoutContent() UploadedFile {
	f.Content = nil
	return f
}

type UploadSource string

const (
	SourcePicker UploadSource = "picker"
	SourceFolder UploadSource = "folder"
	SourceDrop   UploadSource = "drop"
)

func ParseUploadSource(s string) UploadSource {
	switch UploadSource(strings.ToLower(strings.TrimSpace(s))) {
	case SourceFolder:
		return SourceFolder
	case SourceDrop:
		return SourceDrop
	default:
		return SourcePicker
	}
}

// FiltersPDF reports whether files from this source are restricted to the
// .pdf suffix before they enter the workspace.
func (s UploadSource) FiltersPDF() bool {
	return s == SourceFolder || s == SourceDrop
}

func HasPDFExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// FilterPDFs keeps the files whose name ends in .pdf, preserving order.
func FilterPDFs(files []UploadedFile) []UploadedFile {
	var out []UploadedFile
	for _, f := range files {
		if HasPDFExtension(f.Name) {
			out = append(out, f)
		}
	}
	return out
}
