// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key header) protecting every route
//     except configured public prefixes.
//   - rayid: generates a unique request id (RayID) for every request, stores
//     it in the context and echoes it in the X-Ray-ID response header.
//
// RayID must be registered first so every later log line can carry the id.
package middleware
