package models

// DownloadKind tags the shape a download response arrived in.
type DownloadKind int

const (
	// DownloadBinary is a raw document stream.
	DownloadBinary DownloadKind = iota + 1
	// DownloadEnvelope is JSON carrying base64-encoded file descriptors.
	DownloadEnvelope
	// DownloadPathReference is JSON that only names server-side paths.
	DownloadPathReference
)

func (k DownloadKind) String() string {
	switch k {
	case DownloadBinary:
		return "binary"
	case DownloadEnvelope:
		return "envelope"
	case DownloadPathReference:
		return "path-reference"
	default:
		return "unknown"
	}
}

// DownloadResult is the normalised download response. Exactly the fields of
// its Kind are populated.
type DownloadResult struct {
	Kind DownloadKind

	// DownloadBinary
	Filename    string
	ContentType string
	Body        []byte

	// DownloadEnvelope
	Files  []FileDescriptor
	Failed map[string][]string

	// DownloadPathReference
	Paths []string
}

// FileDescriptor is one entry of a download envelope.
type FileDescriptor struct {
	OwnerDocumentID string `json:"book_id"`
	Filename        string `json:"filename"`
	MimeType        string `json:"mime"`
	Base64          string `json:"b64"`
	SizeBytes       int64  `json:"size_bytes"`
}

// LoginResult is what the backend returns on successful login.
type LoginResult struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	UserID      string   `json:"user_id"`
	BookIDs     []string `json:"book_ids"`
}

// UploadResult is what the backend returns after a document upload.
type UploadResult struct {
	OwnerDocumentID string `json:"book_id"`
	Filename        string `json:"filename"`
	Message         string `json:"message"`
	Status          string `json:"status"`
}
