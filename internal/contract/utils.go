package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"winsfinder/schema"
)

// Color variables for console output.
var (
	HighColor   = color.New(color.FgRed, color.Bold) // high impact stands out
	MediumColor = color.New(color.FgYellow)
	LowColor    = color.New(color.FgCyan)
	OKColor     = color.New(color.FgGreen)
	FailColor   = color.New(color.FgRed)
)

// GetPlainImpactLabel returns a plain text marker for an impact level.
// This is the core logic used for non-terminal output.
func GetPlainImpactLabel(impact schema.Impact) string {
	switch impact {
	case schema.HighImpact:
		return "High"
	case schema.MediumImpact:
		return "Medium"
	default:
		return "Low"
	}
}

// GetColorImpactLabel returns a colored impact label for console output.
func GetColorImpactLabel(impact schema.Impact) string {
	text := GetPlainImpactLabel(impact)
	switch impact {
	case schema.HighImpact:
		return HighColor.Sprint(text)
	case schema.MediumImpact:
		return MediumColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for the
// activity store.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".winsfinder.db"
	}
	return filepath.Join(homeDir, ".winsfinder.db")
}

// SelectOutputFile returns the appropriate file handle for output based on
// the provided file path, falling back to os.Stdout when empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}
