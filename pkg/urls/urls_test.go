package urls

import (
	"reflect"
	"testing"
)

func TestConfigURLs(t *testing.T) {
	got := Builder{UseTLS: true}.ConfigURLs()

	want := []string{
		"https://www.speedtest.net/speedtest-config.php",
		"https://c.speedtest.net/speedtest-config.php",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ConfigURLs() = %v, want %v", got, want)
	}
}

func TestServerURLs(t *testing.T) {
	tests := []struct {
		name    string
		builder Builder
		want    []string
	}{
		{
			name:    "tls with threads",
			builder: Builder{UseTLS: true, Threads: 5},
			want: []string{
				"https://www.speedtest.net/speedtest-servers.php?threads=5",
				"https://www.speedtest.net/speedtest-servers-static.php?threads=5",
				"https://c.speedtest.net/speedtest-servers.php?threads=5",
				"https://c.speedtest.net/speedtest-servers-static.php?threads=5",
			},
		},
		{
			name:    "plain http without threads",
			builder: Builder{},
			want: []string{
				"http://www.speedtest.net/speedtest-servers.php",
				"http://www.speedtest.net/speedtest-servers-static.php",
				"http://c.speedtest.net/speedtest-servers.php",
				"http://c.speedtest.net/speedtest-servers-static.php",
			},
		},
		{
			name:    "host override",
			builder: Builder{Hosts: []string{"127.0.0.1:9000"}, Threads: 2},
			want: []string{
				"http://127.0.0.1:9000/speedtest-servers.php?threads=2",
				"http://127.0.0.1:9000/speedtest-servers-static.php?threads=2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.builder.ServerURLs(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ServerURLs() = %v, want %v", got, tt.want)
			}
		})
	}
}
