package campaign

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aurule/npc/internal/atomicfile"
	"github.com/aurule/npc/internal/settings"
	"github.com/aurule/npc/internal/template"
)

// SeriesFile is one numbered file of a series.
type SeriesFile struct {
	Path   string
	Number int
}

// Series is a directory of numbered files such as session notes. The file
// name pattern holds settings.NumberPlaceholder where the number goes.
type Series struct {
	Dir      string
	Pattern  string
	Template string

	// Root anchors relative template paths.
	Root string

	match *regexp.Regexp
}

// NewSeries builds a series from its settings. Relative paths are resolved
// against the campaign root.
func NewSeries(st *settings.Settings, cfg settings.Series) *Series {
	return &Series{
		Dir:      st.CampaignPath(cfg.Path),
		Pattern:  cfg.FileName,
		Template: cfg.Template,
		Root:     st.Root(),
	}
}

// Sessions is the campaign's session series.
func Sessions(st *settings.Settings) *Series {
	return NewSeries(st, st.Campaign().Sessions)
}

// Plots is the campaign's plot series.
func Plots(st *settings.Settings) *Series {
	return NewSeries(st, st.Campaign().Plots)
}

// NextSession creates the next session file.
func NextSession(st *settings.Settings, now time.Time) (*SeriesFile, error) {
	return Sessions(st).Next(now)
}

// NextPlot creates the next plot file.
func NextPlot(st *settings.Settings, now time.Time) (*SeriesFile, error) {
	return Plots(st).Next(now)
}

func (s *Series) matcher() (*regexp.Regexp, error) {
	if s.match != nil {
		return s.match, nil
	}
	before, after, ok := strings.Cut(s.Pattern, settings.NumberPlaceholder)
	if !ok {
		return nil, fmt.Errorf("file name %q has no %s placeholder", s.Pattern, settings.NumberPlaceholder)
	}
	s.match = regexp.MustCompile(`^` + regexp.QuoteMeta(before) + `(\d+)` + regexp.QuoteMeta(after) + `$`)
	return s.match, nil
}

// FileName returns the file name for number n, zero-padded to two digits.
func (s *Series) FileName(n int) string {
	return strings.Replace(s.Pattern, settings.NumberPlaceholder, fmt.Sprintf("%02d", n), 1)
}

// Latest returns the highest-numbered existing file, or nil when the
// series is empty or its directory does not exist yet.
func (s *Series) Latest() (*SeriesFile, error) {
	re, err := s.matcher()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Dir, err)
	}

	var latest *SeriesFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if latest == nil || n > latest.Number {
			latest = &SeriesFile{Path: filepath.Join(s.Dir, e.Name()), Number: n}
		}
	}
	return latest, nil
}

// Next creates the file after the latest one. Its body is a copy of the
// latest file, or the series template when there is no latest file. The
// series directory is created if needed. An existing file is never
// overwritten.
func (s *Series) Next(now time.Time) (*SeriesFile, error) {
	latest, err := s.Latest()
	if err != nil {
		return nil, err
	}

	next := &SeriesFile{Number: 1}
	var body string
	if latest != nil {
		next.Number = latest.Number + 1
		data, err := os.ReadFile(latest.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", latest.Path, err)
		}
		body = string(data)
	} else {
		content, err := template.Load(s.Root, s.Template)
		if err != nil {
			return nil, err
		}
		body = template.Apply(content, template.NewSessionVariables(next.Number, now))
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", s.Dir, err)
	}
	next.Path = filepath.Join(s.Dir, s.FileName(next.Number))
	if err := atomicfile.Create(next.Path, []byte(body), 0o644); err != nil {
		return nil, fmt.Errorf("creating %s: %w", next.Path, err)
	}
	return next, nil
}
