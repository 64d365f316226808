package index

var (
	bOutputs = []byte("outputs") // relPath -> Entry json
	bRuns    = []byte("runs")    // invTime + runID -> Run json
)
