package retrosheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
)

// ErrFileName is wrapped by every file-name parse failure.
var ErrFileName = errors.New("unrecognized file name")

// FileNameError carries the offending base name and the expected layout.
type FileNameError struct {
	Name   string
	Layout string
}

func (e *FileNameError) Error() string {
	return fmt.Sprintf("%v: %q does not match %s", ErrFileName, e.Name, e.Layout)
}

func (e *FileNameError) Unwrap() error {
	return ErrFileName
}

// FileMeta is the season and team encoded in a file name. Team is empty for
// team files.
type FileMeta struct {
	Year string
	Team string
}

var (
	eventFilePattern  = regexp.MustCompile(`^(\d{4})(\w{3}).+$`)
	rosterFilePattern = regexp.MustCompile(`^(\w{3})(\d{4}).+$`)
	teamFilePattern   = regexp.MustCompile(`^TEAM(\d{4})$`)
)

// Glob patterns matching each file class within an extract directory.
const (
	EventFileGlob  = "*.EV*"
	RosterFileGlob = "*.ROS"
	TeamFileGlob   = "TEAM*"
)

// ParseEventFileName reads names such as "2009SFN.EVN".
func ParseEventFileName(path string) (FileMeta, error) {
	name := filepath.Base(path)
	m := eventFilePattern.FindStringSubmatch(name)
	if m == nil {
		return FileMeta{}, &FileNameError{Name: name, Layout: "YYYYTTT.EV?"}
	}
	return FileMeta{Year: m[1], Team: m[2]}, nil
}

// ParseRosterFileName reads names such as "SFN2009.ROS".
func ParseRosterFileName(path string) (FileMeta, error) {
	name := filepath.Base(path)
	m := rosterFilePattern.FindStringSubmatch(name)
	if m == nil {
		return FileMeta{}, &FileNameError{Name: name, Layout: "TTTYYYY.ROS"}
	}
	return FileMeta{Team: m[1], Year: m[2]}, nil
}

// ParseTeamFileName reads names such as "TEAM2009".
func ParseTeamFileName(path string) (FileMeta, error) {
	name := filepath.Base(path)
	m := teamFilePattern.FindStringSubmatch(name)
	if m == nil {
		return FileMeta{}, &FileNameError{Name: name, Layout: "TEAMYYYY"}
	}
	return FileMeta{Year: m[1]}, nil
}
