// Package common holds helpers shared by several services.
//
// It detects the current system actor (hostname and username) so build
// records show where and by whom an executable was produced.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
