package coverage

import (
	"os"

	"github.com/grovetools/coverlay/errors"
)

// LoadFiles reads raw report contents for the given paths. A read failure
// aborts the whole load: a half-read set of reports would produce a cache
// silently missing files, and the next filesystem event retries anyway.
func LoadFiles(paths []string) (map[string]string, error) {
	contents := make(map[string]string, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.ReadFailed(path, err)
		}
		contents[path] = string(data)
	}
	return contents, nil
}
