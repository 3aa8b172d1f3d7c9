package domain

// UploadedFile describes a file accepted by the upload store. Immutable
// once written; cleanup is an explicit external concern.
type UploadedFile struct {
	FieldName    string
	Filename     string
	OriginalName string
	MimeType     string
	SizeBytes    int64
	StoragePath  string
}
