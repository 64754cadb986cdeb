// Package integrity provides infrastructure health checks.
//
// # Checks Provided
//
//   - Structure: Checks if the mig/, ahb/ and diff/ folders exist in the storage bucket.
//   - Schema: Validates that the row store tables contain every column the gorm models
//     expect (columns, explicit types).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/schema : Runs row store schema check.
package integrity
