package utils

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// SystemInfo holds information about the current system
type SystemInfo struct {
	OS            string
	Architecture  string
	ChromePresent bool
	ChromePath    string
}

// DetectSystem returns information about the current operating system and architecture
func DetectSystem() SystemInfo {
	return SystemInfo{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}
}

// --------------------------------------
// CHROME CHECK
// --------------------------------------

var chromeBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
}

// CheckChrome checks if google-chrome or chromium is installed
func CheckChrome() (bool, string) {
	for _, bin := range chromeBinaries {
		path, err := exec.LookPath(bin)
		if err == nil {
			return true, path
		}
	}

	for _, path := range commonChromePaths(runtime.GOOS) {
		if _, err := os.Stat(path); err == nil {
			return true, path
		}
	}

	return false, ""
}

// commonChromePaths returns common Chrome/Chromium installation paths
func commonChromePaths(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}

	case "linux":
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}

	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files\Chromium\Application\chromium.exe`,
			`C:\Program Files (x86)\Chromium\Application\chromium.exe`,
		}

	default:
		return nil
	}
}

// --------------------------------------
// VALIDATION
// --------------------------------------

var ErrChromeMissing = errors.New("chrome/chromium is required for PDF printing but not installed")

// ValidateSystemRequirements logs the platform and locates Chrome. The PDF
// fallback cannot work without it, so a missing browser is reported as
// ErrChromeMissing together with install hints in the log.
func ValidateSystemRequirements(logger *zap.Logger) (SystemInfo, error) {
	sysInfo := DetectSystem()
	sysInfo.ChromePresent, sysInfo.ChromePath = CheckChrome()

	logger.Info("System information",
		zap.String("os", sysInfo.OS),
		zap.String("arch", sysInfo.Architecture))

	if sysInfo.ChromePresent {
		logger.Info("Chrome/Chromium found",
			zap.String("path", sysInfo.ChromePath),
			zap.String("version", chromeVersion(sysInfo.ChromePath)))
		return sysInfo, nil
	}

	logger.Warn("Chrome / Chromium not found",
		zap.Strings("install", ChromeInstallInstructions(sysInfo.OS)))
	return sysInfo, ErrChromeMissing
}

// chromeVersion attempts to get the version of Chrome/Chromium
func chromeVersion(path string) string {
	output, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

// --------------------------------------
// INSTALLATION INSTRUCTIONS
// --------------------------------------

func ChromeInstallInstructions(osType string) []string {
	switch osType {
	case "linux":
		return []string{
			"Ubuntu / Debian: sudo apt update && sudo apt install chromium-browser",
			"Fedora: sudo dnf install chromium",
			"Arch: sudo pacman -S chromium",
			"Google Chrome: https://www.google.com/chrome/",
		}

	case "darwin":
		return []string{
			"Homebrew: brew install --cask google-chrome",
			"Or Chromium: brew install chromium",
		}

	case "windows":
		return []string{
			"Download Google Chrome: https://www.google.com/chrome/",
			"Or install Chromium manually.",
		}

	default:
		return []string{"Please install Chrome or Chromium for your OS."}
	}
}
