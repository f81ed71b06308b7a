package coverage

import (
	"bufio"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grovetools/coverlay/errors"
	"github.com/grovetools/coverlay/logging"
)

// Parse reads an lcov tracefile into per-file sections. The records handled
// are TN (test name), SF (source file), DA (line execution), LF/LH (line
// totals), BRF/BRH (branch totals) and end_of_record. Relative SF paths are
// resolved against baseDir.
//
// A tracefile with no SF record at all is malformed; stray records before the
// first SF are skipped.
func Parse(content string, baseDir string) ([]*Section, error) {
	var sections []*Section
	var current *Section
	var title string
	var sawLF, sawLH bool

	// Some producers emit only DA records; derive the missing line totals
	// from them, the way lcov's own tooling does.
	closeSection := func() {
		if current == nil {
			return
		}
		if len(current.LineHits) > 0 {
			if !sawLF {
				current.Lines.Found = len(current.LineHits)
			}
			if !sawLH {
				hit := 0
				for _, count := range current.LineHits {
					if count > 0 {
						hit++
					}
				}
				current.Lines.Hit = hit
			}
		}
		sections = append(sections, current)
		current = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line == "end_of_record" {
			closeSection()
			continue
		}

		directive, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		switch directive {
		case "TN":
			title = value
		case "SF":
			// Missing end_of_record; close the open section anyway.
			closeSection()
			file := value
			if !filepath.IsAbs(file) && baseDir != "" {
				file = filepath.Join(baseDir, file)
			}
			current = &Section{Title: title, File: file}
			sawLF, sawLH = false, false
		case "DA":
			if current == nil {
				continue
			}
			fields := strings.Split(value, ",")
			if len(fields) < 2 {
				return nil, parseError(lineNo, "malformed DA record")
			}
			lineNum, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, parseError(lineNo, "non-numeric DA line number")
			}
			hits, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, parseError(lineNo, "non-numeric DA hit count")
			}
			if current.LineHits == nil {
				current.LineHits = make(map[int]int)
			}
			current.LineHits[lineNum] += hits
		case "LF":
			if current == nil {
				continue
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, parseError(lineNo, "non-numeric LF value")
			}
			current.Lines.Found = n
			sawLF = true
		case "LH":
			if current == nil {
				continue
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, parseError(lineNo, "non-numeric LH value")
			}
			current.Lines.Hit = n
			sawLH = true
		case "BRF":
			if current == nil {
				continue
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, parseError(lineNo, "non-numeric BRF value")
			}
			if current.Branches == nil {
				current.Branches = &Parts{}
			}
			current.Branches.Found = n
		case "BRH":
			if current == nil {
				continue
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, parseError(lineNo, "non-numeric BRH value")
			}
			if current.Branches == nil {
				current.Branches = &Parts{}
			}
			current.Branches.Hit = n
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeParseFailed, "failed to scan tracefile")
	}

	closeSection()
	if len(sections) == 0 {
		return nil, errors.New(errors.ErrCodeParseFailed, "tracefile contains no coverage records")
	}

	return sections, nil
}

// FilesToSections parses a set of raw report contents, keyed by report path,
// into one merged cache. A report that fails to parse is logged and skipped;
// a single bad file never discards the statistics from the good ones.
func FilesToSections(contents map[string]string, baseDir string) Cache {
	log := logging.NewLogger("coverage")

	var all []*Section
	for path, content := range contents {
		sections, err := Parse(content, baseDirFor(path, baseDir))
		if err != nil {
			log.WithError(err).WithField("file", path).Warn("Skipping unparseable coverage report")
			continue
		}
		all = append(all, sections...)
	}
	return NewCache(all)
}

// baseDirFor picks the directory relative SF paths resolve against: the
// configured base dir when set, otherwise the report file's own directory.
func baseDirFor(reportPath, configured string) string {
	if configured != "" {
		return configured
	}
	return filepath.Dir(reportPath)
}

// parseError reports a malformed record at a specific tracefile line.
func parseError(lineNo int, msg string) *errors.CoverlayError {
	return errors.New(errors.ErrCodeParseFailed, msg).WithDetail("line", lineNo)
}
