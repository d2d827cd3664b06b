// Package utils provides small shared helpers used across the application.
package utils
