package knowledge

import (
	"fmt"
	"os"

	"github.com/notkurt/ghost/internal/paths"
)

// Append writes e onto the log at path, creating the file if absent.
func Append(path string, e Entry) error {
	return appendString(path, Format(e))
}

// AppendLegacy writes a legacy plain-title entry.
func AppendLegacy(path, title string) error {
	return appendString(path, FormatLegacy(title))
}

func appendString(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening knowledge log %s: %w", path, err)
	}
	defer f.Close()
	_, err = f.WriteString(text)
	return err
}

// ReadAll returns every entry in the log at path. A missing file yields
// an empty slice, never an error.
func ReadAll(path string) []Entry {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return Parse(string(data))
}

// Mistakes and Decisions are convenience readers over the two fixed logs.
func Mistakes(repo string) []Entry  { return ReadAll(paths.MistakesFile(repo)) }
func Decisions(repo string) []Entry { return ReadAll(paths.DecisionsFile(repo)) }
