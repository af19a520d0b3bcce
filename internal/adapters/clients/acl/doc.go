// Package acl is the anti-corruption layer between the quote upstream and
// the domain.
//
// The upstream answers GET / with {"quote": "...", "author": "..."}. That
// shape never leaves this package: [InspirationClient] decodes it into an
// unexported DTO, shape-checks it, and returns a [domain.Quote].
//
// Every failure is translated before it crosses the boundary:
//
//   - non-2xx status → [domain.NetworkError] carrying the status code and text
//   - transport failure or open circuit → [domain.NetworkError] carrying the cause
//   - empty, non-JSON or incomplete body → [domain.ValidationError] with
//     [domain.MessageInvalidResponse]
//
// Callers never see [clients.ErrCircuitOpen] or raw net errors except
// through errors.Is/errors.As on the wrapped cause.
package acl
