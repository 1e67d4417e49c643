package models

// FileRef is an uploaded file held in form state before submission. A nil or
// zero-size FileRef never passes the file validation rule.
type FileRef struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// Empty reports whether the reference does not carry an actual file.
func (f *FileRef) Empty() bool {
	return f == nil || f.Size <= 0
}
