// Command mockfeeds serves canned versions of the four upstream feeds for
// local development: the county news RSS feed, the scanner RSS feed, the
// traffic events JSON API, and the weather alerts GeoJSON API. The default
// ingestd config points at this server.
//
// Usage:
//
//	go run ./cmd/mockfeeds -addr :9090
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /county-news/rss", serveXML(countyNewsFeed))
	mux.HandleFunc("GET /scanner/rss", serveXML(scannerFeed))
	mux.HandleFunc("GET /traffic/events", serveJSON(trafficEvents))
	mux.HandleFunc("GET /weather/alerts", serveJSON(weatherAlerts))

	log.Printf("mock feeds listening on %s", *addr)
	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func serveXML(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}
}

func serveJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}
}

const countyNewsFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>McHenry County News</title>
    <item>
      <title>County Board approves 2027 budget</title>
      <description>&lt;p&gt;The McHenry County Board approved the fiscal year 2027 budget at its regular meeting in Woodstock.&lt;/p&gt;</description>
      <link>https://example.gov/news/budget-2027</link>
      <guid>news-1001</guid>
      <pubDate>Mon, 24 Aug 2026 09:00:00 -0500</pubDate>
    </item>
    <item>
      <title>Road closure on Walkup Road in Crystal Lake</title>
      <description>Walkup Road will be closed between Route 176 and Hillside Road for culvert replacement.</description>
      <link>https://example.gov/news/walkup-closure</link>
      <guid>news-1002</guid>
      <pubDate>Mon, 24 Aug 2026 11:30:00 -0500</pubDate>
    </item>
    <item>
      <title>Burn ban issued countywide</title>
      <description>Due to dry conditions a countywide burn ban takes effect immediately.</description>
      <link>https://example.gov/news/burn-ban</link>
      <guid>news-1003</guid>
      <pubDate>Sun, 23 Aug 2026 15:00:00 -0500</pubDate>
    </item>
  </channel>
</rss>`

const scannerFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>County Scanner Reports</title>
    <item>
      <title>Structure fire reported on Main St in Woodstock</title>
      <description>Multiple units responding to a structure fire near the square.</description>
      <guid>scan-2001</guid>
      <pubDate>Mon, 24 Aug 2026 14:30:00 -0500</pubDate>
    </item>
    <item>
      <title>Two vehicle crash at Route 47 and Reed Rd, Huntley</title>
      <description>Injuries reported, right lane blocked.</description>
      <guid>scan-2002</guid>
      <pubDate>Mon, 24 Aug 2026 16:05:00 -0500</pubDate>
    </item>
    <item>
      <title>Shots fired call near downtown McHenry</title>
      <description>Officers on scene, area residents asked to avoid Green Street.</description>
      <guid>scan-2003</guid>
      <pubDate>Mon, 24 Aug 2026 21:40:00 -0500</pubDate>
    </item>
  </channel>
</rss>`

// trafficEvents mixes PascalCase and camelCase field names the way the real
// upstream does across API versions.
const trafficEvents = `[
  {
    "EventID": "TX-4412",
    "EventType": "Crash",
    "Description": "Two vehicle crash, right lane blocked",
    "Location": "US-14 and IL-31, Crystal Lake",
    "Latitude": 42.2411,
    "Longitude": -88.3162,
    "StartDate": "2026-08-24T14:22:00"
  },
  {
    "eventId": "TX-4413",
    "eventType": "Construction",
    "description": "Lane closures for resurfacing",
    "location": "IL-47 near Woodstock",
    "latitude": "42.3147",
    "longitude": "-88.4487",
    "startDate": "2026-08-24 06:00:00"
  }
]`

const weatherAlerts = `{
  "features": [
    {
      "properties": {
        "id": "urn:oid:2.49.0.1.840.0.1111",
        "event": "Severe Thunderstorm Warning",
        "headline": "Severe Thunderstorm Warning issued for McHenry County",
        "description": "Quarter size hail and 60 mph wind gusts possible.",
        "severity": "Severe",
        "areaDesc": "McHenry, IL",
        "onset": "2026-08-24T17:00:00-05:00",
        "effective": "2026-08-24T17:00:00-05:00"
      }
    },
    {
      "properties": {
        "id": "urn:oid:2.49.0.1.840.0.2222",
        "event": "Heat Advisory",
        "headline": "Heat Advisory in effect until 8 PM",
        "description": "Heat index values up to 104 expected.",
        "severity": "Moderate",
        "areaDesc": "McHenry, IL",
        "onset": "2026-08-24T12:00:00-05:00"
      }
    }
  ]
}`
