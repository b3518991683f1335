// Package translation talks to the Microsoft Translator v2 HTTP API. It
// detects the language of a text, translates text between languages and
// unwraps the single-element XML documents the service answers with.
package translation
