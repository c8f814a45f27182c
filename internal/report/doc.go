// Package report builds the end-of-run capture summary and renders it as terminal markdown.
package report
