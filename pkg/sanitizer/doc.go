// Package sanitizer normalizes user-supplied text before validation and storage.
//
// All functions are idempotent and never fail: input that cannot be normalized
// becomes the empty string, which validation then rejects.
//
//   - Names and room types: trim, collapse inner whitespace
//   - Emails: trim, lowercase
//   - Phone numbers: E.164 (+[country][number])
package sanitizer
