// Package domain contains the value types of the media upload protocol.
//
// It has no dependencies on HTTP, the file system or logging.
//
// # Types
//
//   - [UploadSession]: a server-issued upload target for one file
//   - [UploadRequestParams]: credentials and metadata sent when negotiating
//   - [ByteRange]: the inclusive span of a file sent in one PUT
//   - [UploadResult]: the raw status, reason and body returned by the server
//   - [Progress]: a streaming progress event
//
// Errors returned across the public API are one of [TransportError],
// [ServerError] or [IOError]. Match them with errors.As, or with errors.Is
// against [ErrTransport], [ErrServer] and [ErrIO].
package domain
