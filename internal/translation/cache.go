package translation

// Cache stores translations in memory for batch operations
type Cache struct {
	translations map[cacheKey]string
}

type cacheKey struct {
	text, from, to string
}

// NewCache creates a new translation cache
func NewCache() *Cache {
	return &Cache{
		translations: make(map[cacheKey]string),
	}
}

// Add adds a translation to the cache
func (c *Cache) Add(text, from, to, translation string) {
	c.translations[cacheKey{text, from, to}] = translation
}

// Get retrieves a translation from the cache
func (c *Cache) Get(text, from, to string) (string, bool) {
	translation, ok := c.translations[cacheKey{text, from, to}]
	return translation, ok
}

// Len returns the number of cached translations
func (c *Cache) Len() int {
	return len(c.translations)
}
