// Package secret loads the Microsoft Translator client secret from a
// per-user file or from the system keyring. The secret is read once per
// Loader and served from memory afterwards.
package secret
