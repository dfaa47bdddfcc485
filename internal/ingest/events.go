package ingest

// Streamed pipeline events. Each one becomes a single JSON line in the
// admin endpoints' responses, so field names here are the wire format.

// Sink receives pipeline events as they happen. Implementations that write
// to a client should flush after every event.
type Sink interface {
	Emit(event interface{}) error
}

// TransferProgress is emitted after each upserted batch.
type TransferProgress struct {
	Type         string `json:"type"`
	Completed    int    `json:"completed"`
	Total        int    `json:"total"`
	CurrentBatch int    `json:"currentBatch"`
	TotalBatches int    `json:"totalBatches"`
}

// TransferComplete terminates a transfer stream.
type TransferComplete struct {
	Type           string `json:"type"`
	TotalProcessed int    `json:"totalProcessed"`
	TotalRecords   int    `json:"totalRecords"`
}

// EnrichProgress is emitted after each processed candidate.
type EnrichProgress struct {
	Type             string `json:"type"`
	Completed        int    `json:"completed"`
	Total            int    `json:"total"`
	Successful       int    `json:"successful"`
	CurrentCandidate string `json:"currentCandidate"`
}

// EnrichComplete terminates an enrichment stream.
type EnrichComplete struct {
	Type            string `json:"type"`
	TotalProcessed  int    `json:"totalProcessed"`
	TotalSuccessful int    `json:"totalSuccessful"`
	TotalFailed     int    `json:"totalFailed"`
}

// ErrorEvent reports a recoverable failure without ending the stream.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newTransferProgress(completed, total, currentBatch, totalBatches int) TransferProgress {
	return TransferProgress{
		Type:         "progress",
		Completed:    completed,
		Total:        total,
		CurrentBatch: currentBatch,
		TotalBatches: totalBatches,
	}
}

func newTransferComplete(processed, total int) TransferComplete {
	return TransferComplete{
		Type:           "complete",
		TotalProcessed: processed,
		TotalRecords:   total,
	}
}

func newEnrichProgress(completed, total, successful int, current string) EnrichProgress {
	return EnrichProgress{
		Type:             "progress",
		Completed:        completed,
		Total:            total,
		Successful:       successful,
		CurrentCandidate: current,
	}
}

func newEnrichComplete(processed, successful int) EnrichComplete {
	return EnrichComplete{
		Type:            "complete",
		TotalProcessed:  processed,
		TotalSuccessful: successful,
		TotalFailed:     processed - successful,
	}
}

func newErrorEvent(message string) ErrorEvent {
	return ErrorEvent{Type: "error", Message: message}
}
