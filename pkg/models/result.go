package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Result is one completed run, persisted for later inspection.
type Result struct {
	bun.BaseModel `bun:"table:results,alias:r"`

	ID            string `bun:",pk"`
	ServerID      string `bun:",notnull"`
	ServerName    string
	ServerSponsor string
	ServerHost    string
	ServerURL     string `bun:",notnull"`
	ClientIP      string
	ClientISP     string
	ClientCountry string
	SelectDelayMs int64
	DownloadBytes int64
	DownloadMs    int64
	UploadBytes   int64
	UploadMs      int64
	Transport     string
	CreatedAt     time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// DownloadMbps is the achieved download rate in megabits per second.
func (r *Result) DownloadMbps() float64 {
	return mbps(r.DownloadBytes, r.DownloadMs)
}

// UploadMbps is the achieved upload rate in megabits per second.
func (r *Result) UploadMbps() float64 {
	return mbps(r.UploadBytes, r.UploadMs)
}

func mbps(bytes, millis int64) float64 {
	if millis <= 0 {
		return 0
	}
	return float64(bytes) * 8 / 1_000_000 / (float64(millis) / 1000)
}
