package models

import (
	"encoding/xml"
	"reflect"
	"testing"
)

const rawConfig = `
<settings>
<client ip="1.1.1.1" lat="65.2842" lon="11.1759" isp="Value" isprating="3.7" rating="0" ispdlavg="0" ispulavg="0" loggedin="0" country="HK"/>
<server-config threadcount="4" ignoreids="683,1525,1716" notonmap="10588,16148" forcepingid="" preferredserverid=""/>
<licensekey>f7a45ced624d3a70-1df5b7cd427370f7-b91ee21d6cb22d7b</licensekey>
<customer>speedtest</customer>
<times dl1="5000000" dl2="35000000" dl3="800000000" ul1="1000000" ul2="8000000" ul3="35000000"/>
<download testlength="10" initialtest="250K" mintestsize="250K" threadsperurl="4"/>
<upload testlength="10" ratio="5" initialtest="0" mintestsize="32K" threads="2" maxchunksize="512K" maxchunkcount="50" threadsperurl="4"/>
<latency testlength="10" waittime="50" timeout="20"/>
</settings>`

func mustDecodeConfig(t *testing.T) *Config {
	t.Helper()
	var cfg Config
	if err := xml.Unmarshal([]byte(rawConfig), &cfg); err != nil {
		t.Fatalf("failed to decode config: %v", err)
	}
	return &cfg
}

func TestDecodeConfig(t *testing.T) {
	cfg := mustDecodeConfig(t)

	if cfg.Client.IP != "1.1.1.1" {
		t.Errorf("Client.IP = %q, want %q", cfg.Client.IP, "1.1.1.1")
	}
	if cfg.Client.Country != "HK" {
		t.Errorf("Client.Country = %q, want %q", cfg.Client.Country, "HK")
	}
	if cfg.ServerConfig.ThreadCount != 4 {
		t.Errorf("ServerConfig.ThreadCount = %d, want 4", cfg.ServerConfig.ThreadCount)
	}
	if cfg.Download.TestLength != 10 || cfg.Download.ThreadsPerURL != 4 {
		t.Errorf("Download = %+v, want testlength 10 threadsperurl 4", cfg.Download)
	}
	if cfg.Upload.Ratio != 5 || cfg.Upload.Threads != 2 || cfg.Upload.MaxChunkCount != 50 {
		t.Errorf("Upload = %+v, want ratio 5 threads 2 maxchunkcount 50", cfg.Upload)
	}

	wantIgnore := []string{"683", "1525", "1716"}
	if got := cfg.IgnoreIDs(); !reflect.DeepEqual(got, wantIgnore) {
		t.Errorf("IgnoreIDs() = %v, want %v", got, wantIgnore)
	}
}

func TestThreads(t *testing.T) {
	cfg := mustDecodeConfig(t)

	if got := cfg.Threads(); got != 8 {
		t.Errorf("Threads() = %d, want 8", got)
	}
	if got := cfg.DownloadThreads(); got != 8 {
		t.Errorf("DownloadThreads() = %d, want 8", got)
	}
	if got := cfg.UploadThreads(); got != 2 {
		t.Errorf("UploadThreads() = %d, want 2", got)
	}
	if got := cfg.MaxUploadCount(); got != 50 {
		t.Errorf("MaxUploadCount() = %d, want 50", got)
	}
}

func TestDownloadSizeSequence(t *testing.T) {
	cfg := mustDecodeConfig(t)

	want := []int{350, 500, 750, 1000, 1500, 2000, 2500, 3000, 3500, 4000}
	if got := cfg.DownloadSizeSequence(); !reflect.DeepEqual(got, want) {
		t.Errorf("DownloadSizeSequence() = %v, want %v", got, want)
	}
}

func TestUploadSizeSequence(t *testing.T) {
	full := []int{32 * kb, 64 * kb, 128 * kb, 256 * kb, 512 * kb, 1024 * kb, 7 * 1024 * kb}

	tests := []struct {
		name  string
		ratio int
		want  []int
	}{
		{name: "zero ratio keeps full sequence", ratio: 0, want: full},
		{name: "ratio one keeps full sequence", ratio: 1, want: full},
		{name: "ratio two drops first entry", ratio: 2, want: full[1:]},
		{name: "ratio five drops four entries", ratio: 5, want: full[4:]},
		{name: "ratio at length keeps full sequence", ratio: 7, want: full},
		{name: "ratio past length keeps full sequence", ratio: 8, want: full},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := mustDecodeConfig(t)
			cfg.Upload.Ratio = tt.ratio

			got := cfg.UploadSizeSequence()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UploadSizeSequence() = %v, want %v", got, tt.want)
			}
			if len(got) == 0 {
				t.Error("UploadSizeSequence() is empty")
			}
		})
	}
}
