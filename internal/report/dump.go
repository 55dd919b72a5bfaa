package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spigell/career-checker/internal/pipeline"
)

// DumpToTmpFile writes the whole run as indented JSON to a temporary file
// named after the run id and returns its path.
func DumpToTmpFile(res *pipeline.Result) (string, error) {
	file, err := os.CreateTemp("", "career-checker_"+res.ID+"_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := WriteJSON(file, res); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
