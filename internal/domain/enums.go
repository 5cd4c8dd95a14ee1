package domain

// FileType represents the allowed file types for document upload.
type FileType string

const (
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"image/jpeg": FileTypeJPG,
	"image/png":  FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// UserRole defines the role hierarchy.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleOfficer UserRole = "officer"
)

// DocumentStatus represents the lifecycle of a verification document.
type DocumentStatus string

const (
	DocumentStatusPending     DocumentStatus = "pending"
	DocumentStatusVerified    DocumentStatus = "verified"
	DocumentStatusNeedsReview DocumentStatus = "needs_review"
	DocumentStatusRejected    DocumentStatus = "rejected"
	DocumentStatusFailed      DocumentStatus = "failed"
)

// Language is the detected primary language of recognized text. Detection is
// informational only; extraction does not branch on it.
type Language string

const (
	LanguageHindi   Language = "hi"
	LanguageMarathi Language = "mr"
	LanguageEnglish Language = "en"
	LanguageUnknown Language = "unknown"
)
