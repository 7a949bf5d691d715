package enrich

import (
	"bufio"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ReadInputs reads newline-separated LinkedIn URLs from path, trimming
// whitespace and skipping blank lines. A missing file is not an error: it
// yields an empty set and the batch becomes a no-op.
func ReadInputs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("inputs: file not found", zap.String("path", path))
			return nil, nil
		}
		return nil, eris.Wrapf(err, "inputs: open %s", path)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "inputs: read %s", path)
	}

	return urls, nil
}
