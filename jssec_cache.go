package jssec

import (
	"container/list"
	"regexp"
	"sync"
)

// GlobalCache memoizes expensive per-string computations shared across
// concurrently running rules, currently regex matches and entropy scores.
var GlobalCache = NewLRUCache[GlobalKey, any](1 << 16)

// Kinds of cached computation, stored in GlobalKey.Kind.
const (
	CacheKindRegex = iota
	CacheKindEntropy
)

// GlobalKey identifies one cached computation without allocating.
type GlobalKey struct {
	Kind  int
	Regex *regexp.Regexp // set for CacheKindRegex
	Str   string
}

// LRUCache is a thread-safe fixed-capacity LRU cache.
type LRUCache[K comparable, V any] struct {
	capacity  int
	items     map[K]*list.Element
	evictList *list.List
	lock      sync.Mutex
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRUCache returns an empty cache holding at most capacity entries.
func NewLRUCache[K comparable, V any](capacity int) *LRUCache[K, V] {
	return &LRUCache[K, V]{
		capacity:  capacity,
		items:     make(map[K]*list.Element),
		evictList: list.New(),
	}
}

func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

func (c *LRUCache[K, V]) Add(key K, value V) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		ent.Value.(*entry[K, V]).value = value
		return
	}

	element := c.evictList.PushFront(&entry[K, V]{key, value})
	c.items[key] = element

	if c.evictList.Len() > c.capacity {
		c.removeOldest()
	}
}

func (c *LRUCache[K, V]) removeOldest() {
	ent := c.evictList.Back()
	if ent != nil {
		c.evictList.Remove(ent)
		delete(c.items, ent.Value.(*entry[K, V]).key)
	}
}

// RegexMatch reports re.MatchString(s), memoized in GlobalCache.
func RegexMatch(re *regexp.Regexp, s string) bool {
	key := GlobalKey{Kind: CacheKindRegex, Regex: re, Str: s}
	if val, ok := GlobalCache.Get(key); ok {
		return val.(bool)
	}
	res := re.MatchString(s)
	GlobalCache.Add(key, res)
	return res
}

// CachedEntropy returns compute(s), memoized in GlobalCache. Only the
// raw score is cached; thresholds applied to it stay with the caller,
// since they vary per rule configuration.
func CachedEntropy(s string, compute func(string) float64) float64 {
	key := GlobalKey{Kind: CacheKindEntropy, Str: s}
	if val, ok := GlobalCache.Get(key); ok {
		return val.(float64)
	}
	res := compute(s)
	GlobalCache.Add(key, res)
	return res
}
