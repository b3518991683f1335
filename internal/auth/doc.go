// Package auth obtains OAuth2 client-credentials access tokens for the
// Microsoft Translator API and caches them until shortly before they expire.
package auth
