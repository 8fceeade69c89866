// Package registry looks up commercial registration records from the Wathq
// commercial registry API and converts them into moc_certificate documents
// for cross-source validation.
//
// [Client] performs the HTTP lookup. [CachedClient] wraps any [Lookuper]
// with a [Cache]; [RedisCache] shares entries across instances and
// [MemoryCache] keeps them in process.
package registry
