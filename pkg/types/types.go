package types

import (
	"time"
)

// CheckKind identifies the probe that produced a Finding. The values are the
// exact literals written to the report's Type column.
type CheckKind string

const (
	KindPortCheck CheckKind = "Port Check"
	KindURLCheck  CheckKind = "URL Check"
	KindSSLCheck  CheckKind = "SSL Check"
)

// Status classifies how interesting or broken an observation is.
type Status string

const (
	StatusOpen    Status = "OPEN"
	StatusWarning Status = "WARNING"
	StatusError   Status = "ERROR"
)

// Finding is one classified observation about a host. Findings are built once
// and never mutated; the report preserves insertion order.
type Finding struct {
	Kind   CheckKind `json:"type"`
	Host   string    `json:"host"`
	Detail string    `json:"details"`
	Status Status    `json:"status"`
}

// ScanReport is the terminal artifact of one scan: the ordered findings plus
// the path of the written report file.
type ScanReport struct {
	ScanID     string        `json:"scan_id"`
	Host       string        `json:"host"`
	Findings   []Finding     `json:"findings"`
	ReportPath string        `json:"report_path"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

type Summary struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}

func Summarize(findings []Finding) Summary {
	s := Summary{
		Total:    len(findings),
		ByStatus: make(map[Status]int),
	}
	for _, f := range findings {
		s.ByStatus[f.Status]++
	}
	return s
}
