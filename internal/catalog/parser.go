package catalog

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/propagation"
)

// Load reads a flat three-line-per-object element set catalog from r and
// returns up to limit parsed objects of the given category. Blank lines are
// stripped before grouping, so triples are positional over non-blank lines.
//
// A triple that cannot be turned into a valid element set is skipped with a
// warning; a single bad record never aborts the batch. Object IDs are the
// zero-based index of the triple within the scan, counting skipped triples,
// so an ID is stable within one load only.
func Load(r io.Reader, category Category, limit int, logger *slog.Logger) ([]TrackedObject, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog text: %w", err)
	}

	var objects []TrackedObject
	for i := 0; i+2 < len(lines); i += 3 {
		if limit > 0 && len(objects) >= limit {
			break
		}

		name := strings.TrimSpace(lines[i])
		line1 := lines[i+1]
		line2 := lines[i+2]

		orbit, err := propagation.New(line1, line2)
		if err != nil {
			logger.Warn("skipping malformed catalog record",
				"triple_index", i/3,
				"name", name,
				"error", err,
			)
			continue
		}

		objects = append(objects, TrackedObject{
			ID:            i / 3,
			CatalogNumber: orbit.Elements().CatalogNumber,
			Name:          name,
			Category:      category,
			Orbit:         orbit,
		})
	}

	return objects, nil
}
