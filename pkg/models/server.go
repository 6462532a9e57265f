package models

import "encoding/xml"

// ServerList is the directory document listing candidate measurement
// servers.
type ServerList struct {
	XMLName xml.Name `xml:"settings"`

	Servers []Server `xml:"servers>server"`
}

// Server is one candidate measurement endpoint. Immutable once fetched.
type Server struct {
	URL     string  `xml:"url,attr"`
	Lat     float64 `xml:"lat,attr"`
	Lon     float64 `xml:"lon,attr"`
	Name    string  `xml:"name,attr"`
	Country string  `xml:"country,attr"`
	CC      string  `xml:"cc,attr"`
	Sponsor string  `xml:"sponsor,attr"`
	ID      string  `xml:"id,attr"`
	Host    string  `xml:"host,attr"`
}

// FilterServers returns the servers whose id does not appear in ignoreIDs.
// The input slice is left untouched.
func FilterServers(servers []Server, ignoreIDs []string) []Server {
	ignored := make(map[string]struct{}, len(ignoreIDs))
	for _, id := range ignoreIDs {
		ignored[id] = struct{}{}
	}

	kept := make([]Server, 0, len(servers))
	for _, s := range servers {
		if _, ok := ignored[s.ID]; !ok {
			kept = append(kept, s)
		}
	}
	return kept
}
