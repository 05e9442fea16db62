// Package domain models public-safety and civic-news incidents for McHenry
// County, Illinois.
//
// # Data Sources
//
// Incidents are pulled from four feeds, each handled by an adapter in
// internal/source:
//
//   - county_news: the county government RSS feed (press releases, board
//     business, road and utility notices). Authoritative, so records are
//     marked verified.
//   - scanner: a community police/fire scanner feed (RSS). Unvetted chatter,
//     so records are marked unverified.
//   - traffic: the state DOT travel-events JSON API. Carries stable event
//     IDs and native coordinates.
//   - weather: the weather service's active-alerts endpoint, GeoJSON with
//     alert fields under features[].properties.
//
// # Classification
//
// Free text is matched against per-source ordered rule tables
// ([ScannerRules], [CountyNewsRules], [TrafficRules]). Evaluation is a
// single linear scan and the first matching rule wins, so specific
// vocabulary must precede generic vocabulary within a table — "shooting"
// is checked before "crash" so a shooting that caused a crash is filed as
// a shooting. Text that matches nothing falls into the table's default
// bucket; the county news feed defaults to (announcement, civic), the rest
// to (other, other).
//
// Severity is a static lookup from category ([SeverityFor]); the weather
// adapter instead maps the alert's own four-level severity vocabulary
// ([WeatherSeverity]).
//
// # Location Resolution
//
// Municipalities are extracted by substring match against a fixed gazetteer
// of county place names, longest names first so that short names like
// "union" cannot shadow compound names containing them. County-level items
// ("county board", "McHenry County …") can fall back to the county seat,
// Woodstock, when the source opts in. The county name contains the city
// name McHenry, so the county phrase is removed from the text before the
// gazetteer scan. See [ResolveMunicipality].
//
// # Fingerprints
//
// Each incident carries a deterministic fingerprint: a SHA-256 digest of a
// small set of identifying fields, truncated to 16 hex characters, and
// namespaced with the source name ("county_news_ab12…"). The fingerprint is
// the idempotency key — re-fetching the same item produces the same
// external ID and the dedup writer drops it. 64 bits of digest is not a
// cryptographic guarantee, but collisions only matter within one source's
// namespace at a few hundred rows per day. See [Fingerprint].
package domain
