package homelabsrv

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	ffs "github.com/homelab-run/homelab-srv/pkg/fs"
	"github.com/homelab-run/homelab-srv/pkg/site"
)

// SettingsPath returns the dot-file recording which folder holds the site
// configuration, for hosts where it isn't /srv/run.
func SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "couldn't determine home directory")
	}
	return filepath.Join(home, ".config", site.ScriptName+".conf"), nil
}

// ConfiguredFolder reads the folder recorded in the settings dot-file,
// normalized to a directory path. It returns "" when nothing usable is
// configured.
func ConfiguredFolder() string {
	settingsPath, err := SettingsPath()
	if err != nil {
		return ""
	}
	contents, err := os.ReadFile(settingsPath)
	if err != nil {
		return ""
	}
	configured, _, _ := strings.Cut(string(contents), "\n")
	configured = strings.TrimSpace(configured)
	if configured == "" {
		return ""
	}
	if strings.HasPrefix(configured, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			configured = filepath.Join(home, configured[2:])
		}
	}
	if strings.HasSuffix(configured, site.ConfigFileName) {
		configured = filepath.Dir(configured)
	}
	if !ffs.DirExists(configured) {
		log.Printf("warning: path configured in %s is invalid: %s", settingsPath, configured)
		return ""
	}
	return configured
}

// SaveFolder records the folder in the settings dot-file.
func SaveFolder(folder string) error {
	settingsPath, err := SettingsPath()
	if err != nil {
		return err
	}
	if err := ffs.EnsureExists(filepath.Dir(settingsPath)); err != nil {
		return err
	}
	return errors.Wrapf(
		os.WriteFile(settingsPath, []byte(folder+"\n"), 0o644),
		"couldn't write %s", settingsPath,
	)
}

// FindBaseFolder resolves where the site configuration lives: the executor
// folder when present, then the configured dot-file, then the current working
// directory. The returned origin records which fallback was used.
func FindBaseFolder() (folder, origin string) {
	if ffs.DirExists(site.DefaultRunFolder) {
		return site.DefaultRunFolder, ""
	}
	if configured := ConfiguredFolder(); configured != "" {
		settingsPath, _ := SettingsPath()
		return configured, settingsPath
	}
	if cwd, err := os.Getwd(); err == nil {
		if _, err := os.Stat(filepath.Join(cwd, site.ConfigFileName)); err == nil {
			return cwd, "cwd"
		}
	}
	return "", ""
}
