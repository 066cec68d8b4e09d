// Package sanitizer normalizes untrusted user input before it reaches
// validation or storage. authkit uses it primarily for case-folding email
// addresses so the same mailbox never produces duplicate accounts.
package sanitizer
