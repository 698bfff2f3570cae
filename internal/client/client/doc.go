// Package client talks to the pen-and-paper backend over HTTP and opens the
// local SQLite cache.
//
// Endpoints used:
//
//	GET  /                     liveness
//	POST /auth/login           {email, password} -> token + book ids
//	POST /documents/download   {book_ids, target_path} -> PDF bytes or JSON envelope
//	POST /documents/search     {q, limit, offset, book_id, tags, tags_mode, date_equals}
//	POST /documents/upload     multipart "file" -> {book_id, filename, message}
//
// The download response is classified once, here, into a models.DownloadResult
// so that callers never look at content types again. Requests carry the token
// as "Authorization: Bearer <token>". Transport failures surface as
// ErrUnavailable, 401/403 as ErrUnauthorized, and other non-2xx statuses as
// *common.ServiceError.
package client
