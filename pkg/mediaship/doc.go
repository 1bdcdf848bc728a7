// Package mediaship uploads large media files to the render service with
// the resumable "start then stream" protocol.
//
// An upload first opens a session: the file name and account parameters are
// posted to <Endpoint>/start and the service answers with the session's put
// URL. The file is then streamed to that URL in a single PUT carrying a
// Content-Range header. When a transfer breaks, the session URL is enough to
// continue: a HEAD request reports how many bytes the service holds and the
// rest of the file is sent from there.
//
// # Basic Usage
//
//	cfg := mediaship.DefaultConfig()
//	cfg.DeveloperKey = "your-developer-key"
//
//	client, err := mediaship.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := client.UploadFile(ctx, "/path/to/video.mp4")
//
// # Resuming
//
// Keep the session URL (it is logged, and returned by [Client.Negotiate])
// and call [Client.ResumeUpload]:
//
//	res, err := client.ResumeUpload(ctx, "/path/to/video.mp4", sessionURL, -1)
//
// # Errors
//
// Failures are reported as [*TransportError], [*ServerError] or [*IOError]
// and can be classified with errors.Is against [ErrTransport], [ErrServer]
// and [ErrIO]. A non-2xx answer to the final PUT is not an error: it is
// returned in [UploadResult] for the caller to interpret.
//
// # Timeouts
//
// Every public operation runs under one overall deadline, [Config.Timeout],
// in addition to any deadline on the caller's context. Nothing is retried
// unless the caller asks for it with [Client.ResumeWithRetry].
package mediaship
