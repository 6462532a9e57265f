// Package urls builds the candidate URL lists for the directory resources.
// Two redundant hosts are tried in order for every resource.
package urls

import "fmt"

const (
	hostMain   = "www.speedtest.net"
	hostBackup = "c.speedtest.net"

	configPath        = "/speedtest-config.php"
	serversPath       = "/speedtest-servers.php"
	serversStaticPath = "/speedtest-servers-static.php"
)

// DefaultHosts returns the fixed directory hosts in the order they are
// attempted.
func DefaultHosts() []string {
	return []string{hostMain, hostBackup}
}

// Builder produces candidate URLs for the config and server-directory
// fetches. The zero value uses the default hosts over plain HTTP.
type Builder struct {
	// Hosts overrides the default host list. Used by tests.
	Hosts []string
	// UseTLS selects https over http.
	UseTLS bool
	// Threads is appended as a query parameter to server-directory URLs
	// when positive, biasing the returned listing.
	Threads int
}

func (b Builder) hosts() []string {
	if len(b.Hosts) > 0 {
		return b.Hosts
	}
	return DefaultHosts()
}

func (b Builder) scheme() string {
	if b.UseTLS {
		return "https"
	}
	return "http"
}

// ConfigURLs returns one candidate per host, in host order.
func (b Builder) ConfigURLs() []string {
	var out []string
	for _, host := range b.hosts() {
		out = append(out, fmt.Sprintf("%s://%s%s", b.scheme(), host, configPath))
	}
	return out
}

// ServerURLs returns two candidates per host, in host-major order.
func (b Builder) ServerURLs() []string {
	var out []string
	for _, host := range b.hosts() {
		for _, path := range []string{serversPath, serversStaticPath} {
			url := fmt.Sprintf("%s://%s%s", b.scheme(), host, path)
			if b.Threads > 0 {
				url = fmt.Sprintf("%s?threads=%d", url, b.Threads)
			}
			out = append(out, url)
		}
	}
	return out
}
