package models

import (
	"encoding/xml"
	"strings"
	"time"
)

// Config is the test configuration document served by the directory hosts.
// It is fetched once per run and read-only afterwards.
type Config struct {
	XMLName xml.Name `xml:"settings"`

	Client       Client       `xml:"client"`
	ServerConfig ServerConfig `xml:"server-config"`
	Download     Download     `xml:"download"`
	Upload       Upload       `xml:"upload"`
}

// Client describes the caller as seen by the directory service.
type Client struct {
	IP        string  `xml:"ip,attr"`
	Lat       float64 `xml:"lat,attr"`
	Lon       float64 `xml:"lon,attr"`
	ISP       string  `xml:"isp,attr"`
	ISPRating float64 `xml:"isprating,attr"`
	Rating    float64 `xml:"rating,attr"`
	ISPDlAvg  float64 `xml:"ispdlavg,attr"`
	ISPUlAvg  float64 `xml:"ispulavg,attr"`
	LoggedIn  int     `xml:"loggedin,attr"`
	Country   string  `xml:"country,attr"`
}

type ServerConfig struct {
	ThreadCount       int    `xml:"threadcount,attr"`
	IgnoreIDs         string `xml:"ignoreids,attr"`
	NotOnMap          string `xml:"notonmap,attr"`
	ForcePingID       string `xml:"forcepingid,attr"`
	PreferredServerID string `xml:"preferredserverid,attr"`
}

type Download struct {
	TestLength    int    `xml:"testlength,attr"`
	InitialTest   string `xml:"initialtest,attr"`
	MinTestSize   string `xml:"mintestsize,attr"`
	ThreadsPerURL int    `xml:"threadsperurl,attr"`
}

type Upload struct {
	TestLength    int    `xml:"testlength,attr"`
	Ratio         int    `xml:"ratio,attr"`
	InitialTest   string `xml:"initialtest,attr"`
	MinTestSize   string `xml:"mintestsize,attr"`
	Threads       int    `xml:"threads,attr"`
	MaxChunkSize  string `xml:"maxchunksize,attr"`
	MaxChunkCount int    `xml:"maxchunkcount,attr"`
	ThreadsPerURL int    `xml:"threadsperurl,attr"`
}

const kb = 1024

var (
	downloadSizes = []int{350, 500, 750, 1000, 1500, 2000, 2500, 3000, 3500, 4000}
	uploadSizes   = []int{32 * kb, 64 * kb, 128 * kb, 256 * kb, 512 * kb, 1024 * kb, 7 * 1024 * kb}
)

// IgnoreIDs returns the server ids that must be dropped from the directory
// listing before selection.
func (c *Config) IgnoreIDs() []string {
	return strings.Split(c.ServerConfig.IgnoreIDs, ",")
}

// Threads is the concurrency used for server racing and the download phase.
func (c *Config) Threads() int {
	return c.ServerConfig.ThreadCount * 2
}

func (c *Config) DownloadThreads() int {
	return c.ServerConfig.ThreadCount * 2
}

func (c *Config) UploadThreads() int {
	return c.Upload.Threads
}

func (c *Config) DownloadCountPerURL() int {
	return c.Download.ThreadsPerURL
}

// MaxUploadCount is the total number of upload tasks in a phase.
func (c *Config) MaxUploadCount() int {
	return c.Upload.MaxChunkCount
}

func (c *Config) MaxDownloadDuration() time.Duration {
	return time.Duration(c.Download.TestLength) * time.Second
}

func (c *Config) MaxUploadDuration() time.Duration {
	return time.Duration(c.Upload.TestLength) * time.Second
}

// DownloadSizeSequence is the fixed ordered set of image sizes used to build
// download URLs. It does not depend on the fetched configuration.
func (c *Config) DownloadSizeSequence() []int {
	seq := make([]int, len(downloadSizes))
	copy(seq, downloadSizes)
	return seq
}

// UploadSizeSequence is the ordered set of upload body sizes in bytes. When
// the configured ratio falls inside (0, len), the first ratio-1 entries are
// dropped, biasing uploads toward larger chunks. The result is never empty.
func (c *Config) UploadSizeSequence() []int {
	seq := make([]int, len(uploadSizes))
	copy(seq, uploadSizes)

	ratio := c.Upload.Ratio
	if ratio > 0 && ratio < len(seq) {
		seq = seq[ratio-1:]
	}
	return seq
}
