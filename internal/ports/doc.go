// Package ports defines the interfaces that connect the upload orchestrator
// (internal/app) to infrastructure adapters (internal/adapters).
//
// # Port Interfaces
//
//   - [Negotiator]: obtains a session URL for a new upload
//   - [Prober]: asks the server how many bytes of a session it holds
//   - [RangeUploader]: streams a byte range of a local file to a session
//   - [Logger]: structured logging
//   - [HTTPClient]: HTTP request execution, injectable for tests
package ports
