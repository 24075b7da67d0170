package tailer

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// ErrNoLogFile is returned by Discover when no candidate log file exists.
var ErrNoLogFile = errors.New("no log file found")

// candidateDirs returns the client log directories to search, most common
// first. Vanilla launcher, then the Badlion and Lunar client layouts.
func candidateDirs() []string {
	var dirs []string

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			dirs = append(dirs,
				filepath.Join(appData, ".minecraft", "logs"),
				filepath.Join(appData, ".minecraft", "logs", "blclient", "minecraft"),
			)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return dirs
	}
	dirs = append(dirs,
		filepath.Join(home, ".minecraft", "logs"),
		filepath.Join(home, ".minecraft", "logs", "blclient", "minecraft"),
		filepath.Join(home, ".lunarclient", "offline", "multiver", "logs"),
	)
	return dirs
}

// Discover locates the live log file. Overrides are tried verbatim first,
// then latest.log in each default client directory, then a scan of those
// directories for the most recently modified log file.
func Discover(overrides []string) (string, error) {
	return discoverIn(overrides, candidateDirs())
}

func discoverIn(overrides, dirs []string) (string, error) {
	for _, p := range overrides {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}

	for _, d := range dirs {
		p := filepath.Join(d, "latest.log")
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}

	if best := newestLogIn(dirs); best != "" {
		return best, nil
	}
	return "", ErrNoLogFile
}

// newestLogIn scans the directories for .log and extensionless files and
// returns the most recently modified one, or "" when none exist.
func newestLogIn(dirs []string) string {
	var best string
	var bestMod time.Time

	for _, d := range dirs {
		entries, err := os.ReadDir(d)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if ext := filepath.Ext(e.Name()); ext != ".log" && ext != "" {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(bestMod) {
				best = filepath.Join(d, e.Name())
				bestMod = info.ModTime()
			}
		}
	}
	return best
}
