package browser

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/warpdl/warpjar/pkg/cookiejar"
)

// ErrNoBrowser is returned by Detect when no supported cookie store exists.
var ErrNoBrowser = errors.New("no supported browser cookie store found (tried Firefox, LibreWolf, Chrome, Chromium, Edge, Brave)")

// profile is a browser installation candidate. Firefox-family browsers list
// profiles.ini files; Chromium-family browsers list cookie files directly.
type profile struct {
	name        string
	profilesIni []string
	cookieFiles []string
}

// chromium lists the two cookie locations under a Chromium profile directory.
func chromium(name, profileDir string) profile {
	return profile{
		name: name,
		cookieFiles: []string{
			filepath.Join(profileDir, "Network", "Cookies"),
			filepath.Join(profileDir, "Cookies"),
		},
	}
}

// knownProfiles returns candidates in priority order:
// Firefox, LibreWolf, Chrome, Chromium, Edge, Brave.
func knownProfiles(goos, home, appData, localAppData string) []profile {
	switch goos {
	case "windows":
		return []profile{
			{name: "Firefox", profilesIni: []string{filepath.Join(appData, "Mozilla", "Firefox", "profiles.ini")}},
			{name: "LibreWolf", profilesIni: []string{filepath.Join(appData, "LibreWolf", "profiles.ini")}},
			chromium("Chrome", filepath.Join(localAppData, "Google", "Chrome", "User Data", "Default")),
			chromium("Chromium", filepath.Join(localAppData, "Chromium", "User Data", "Default")),
			chromium("Edge", filepath.Join(localAppData, "Microsoft", "Edge", "User Data", "Default")),
			chromium("Brave", filepath.Join(localAppData, "BraveSoftware", "Brave-Browser", "User Data", "Default")),
		}
	case "darwin":
		support := filepath.Join(home, "Library", "Application Support")
		return []profile{
			{name: "Firefox", profilesIni: []string{filepath.Join(support, "Firefox", "profiles.ini")}},
			{name: "LibreWolf", profilesIni: []string{filepath.Join(support, "librewolf", "profiles.ini")}},
			chromium("Chrome", filepath.Join(support, "Google", "Chrome", "Default")),
			chromium("Chromium", filepath.Join(support, "Chromium", "Default")),
			chromium("Edge", filepath.Join(support, "Microsoft Edge", "Default")),
			chromium("Brave", filepath.Join(support, "BraveSoftware", "Brave-Browser", "Default")),
		}
	default:
		config := filepath.Join(home, ".config")
		return []profile{
			{name: "Firefox", profilesIni: []string{
				filepath.Join(home, ".mozilla", "firefox", "profiles.ini"),
				filepath.Join(home, "snap", "firefox", "common", ".mozilla", "firefox", "profiles.ini"),
			}},
			{name: "LibreWolf", profilesIni: []string{filepath.Join(home, ".librewolf", "profiles.ini")}},
			chromium("Chrome", filepath.Join(config, "google-chrome", "Default")),
			chromium("Chromium", filepath.Join(config, "chromium", "Default")),
			chromium("Edge", filepath.Join(config, "microsoft-edge", "Default")),
			chromium("Brave", filepath.Join(config, "BraveSoftware", "Brave-Browser", "Default")),
		}
	}
}

func defaultProfiles() []profile {
	home, _ := os.UserHomeDir()
	return knownProfiles(runtime.GOOS, home, os.Getenv("APPDATA"), os.Getenv("LOCALAPPDATA"))
}

// candidates expands a profile into cookie store paths.
func (p profile) candidates() []string {
	if len(p.profilesIni) == 0 {
		return p.cookieFiles
	}
	var paths []string
	for _, ini := range p.profilesIni {
		if dir := defaultProfileDir(ini); dir != "" {
			paths = append(paths, filepath.Join(dir, "cookies.sqlite"))
		}
	}
	return paths
}

// Detect imports domain cookies from the first installed browser found.
func (im *Importer) Detect(domain string) ([]*cookiejar.Cookie, *Source, error) {
	return im.detectIn(domain, defaultProfiles())
}

func (im *Importer) detectIn(domain string, profiles []profile) ([]*cookiejar.Cookie, *Source, error) {
	for _, p := range profiles {
		for _, path := range p.candidates() {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			cookies, source, err := im.Import(path, domain)
			if err != nil {
				im.log().Debug("browser: skipping %s store: %v", p.name, err)
				continue
			}
			source.Browser = p.name
			return cookies, source, nil
		}
	}
	return nil, nil, ErrNoBrowser
}

// defaultProfileDir reads a Firefox-style profiles.ini and returns the
// default profile directory, or "" when none can be identified. An
// [Install*] Default= entry wins over a [Profile*] section with Default=1.
func defaultProfileDir(iniPath string) string {
	f, err := os.Open(iniPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	base := filepath.Dir(iniPath)
	resolve := func(v string) string { return filepath.Join(base, filepath.FromSlash(v)) }

	var (
		installDefault, profileDefault string
		section, path                  string
		isDefault                      bool
	)
	flush := func() {
		if strings.HasPrefix(section, "Profile") && isDefault && profileDefault == "" && path != "" {
			profileDefault = path
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			flush()
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			path, isDefault = "", false
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		switch {
		case strings.HasPrefix(section, "Install") && k == "Default" && installDefault == "":
			installDefault = resolve(v)
		case strings.HasPrefix(section, "Profile") && k == "Path":
			path = resolve(v)
		case strings.HasPrefix(section, "Profile") && k == "Default" && v == "1":
			isDefault = true
		}
	}
	flush()

	if installDefault != "" {
		return installDefault
	}
	return profileDefault
}
