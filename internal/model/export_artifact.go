package model

// ExportArtifact records one generated PDF so the cleanup job can
// prune stale files from the artifact store.
type ExportArtifact struct {
	Key       string `json:"key"`
	FileName  string `json:"file_name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Quality   string `json:"quality"`
	Pages     int    `json:"pages"`
	SizeBytes int64  `json:"size_bytes"`
	Ctime     int64  `json:"ctime"`
}
