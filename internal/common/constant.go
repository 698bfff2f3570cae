package common

// AuthorizationHeader carries the bearer token on outbound requests.
const AuthorizationHeader = "Authorization"

// Session keys in the metadata store.
const (
	SessionTokenKey   = "access_token"
	SessionUserKey    = "user_id"
	SessionBookIDsKey = "book_ids"
)

// PDFMimeType is the only document type the reader stores.
const PDFMimeType = "application/pdf"
