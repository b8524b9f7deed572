package exporter

// ProgressEvent reports how far an export has come. Sheet is empty for
// the load and done stages.
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
	Sheet   string `json:"sheet,omitempty"`
}

func reportProgress(progress func(ProgressEvent), percent int, stage, sheet string) {
	if progress != nil {
		progress(ProgressEvent{Percent: max(0, min(percent, 100)), Stage: stage, Sheet: sheet})
	}
}
