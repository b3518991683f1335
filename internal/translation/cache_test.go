package translation

import "testing"

func TestCache(t *testing.T) {
	cache := NewCache()

	// Test empty cache
	if _, found := cache.Get("Hello", "en", "es"); found {
		t.Error("Expected not found in empty cache")
	}

	cache.Add("Hello", "en", "es", "Hola")
	cache.Add("Hello", "en", "de", "Hallo")

	translation, found := cache.Get("Hello", "en", "es")
	if !found {
		t.Error("Expected to find 'Hello' in cache")
	}
	if translation != "Hola" {
		t.Errorf("Expected 'Hola', got '%s'", translation)
	}

	// Target language is part of the key
	translation, _ = cache.Get("Hello", "en", "de")
	if translation != "Hallo" {
		t.Errorf("Expected 'Hallo', got '%s'", translation)
	}

	// Test overwriting
	cache.Add("Hello", "en", "es", "¡Hola!")
	translation, found = cache.Get("Hello", "en", "es")
	if !found || translation != "¡Hola!" {
		t.Errorf("Expected '¡Hola!', got '%s'", translation)
	}

	if cache.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", cache.Len())
	}
}

func TestCache_EmptyTranslation(t *testing.T) {
	cache := NewCache()
	cache.Add("", "en", "es", "")

	translation, found := cache.Get("", "en", "es")
	if !found {
		t.Error("Expected empty translation to be cached")
	}
	if translation != "" {
		t.Errorf("Expected empty translation, got '%s'", translation)
	}
}
