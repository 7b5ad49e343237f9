package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// PathResolver finds data and config directories relative to the running
// binary.
type PathResolver struct {
	executablePath string
	executableDir  string
	configDir      string
	// patterns are the globs a data directory must match at least once.
	patterns []string
}

// NewPathResolver creates a resolver for app whose data directories hold
// files matching one of patterns.
func NewPathResolver(app string, patterns ...string) (*PathResolver, error) {
	execPath, err := executablePath()
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		configDir:      getConfigDir(homeDir, app),
		patterns:       patterns,
	}
	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", execPath, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir, app string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, app)
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, app)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", app)
	}
	return filepath.Join(homeDir, ".config", app)
}

// GetDataDir resolves the directory holding the data files.
// It tries multiple locations in order of preference:
// 1. User-specified path (if absolute)
// 2. Relative to executable directory
// 3. Relative to current working directory
// 4. data/ next to the executable, its parent, or the config directory
func (pr *PathResolver) GetDataDir(userSpecifiedPath string) (string, error) {
	candidates := pr.dataDirCandidates(userSpecifiedPath)
	for _, path := range candidates {
		if len(pr.ListDataFiles(path)) > 0 {
			log.Debugf("Found valid data directory: %s", path)
			return path, nil
		}
		log.Debugf("Data directory candidate not valid: %s", path)
	}
	return "", &os.PathError{Op: "resolve", Path: userSpecifiedPath, Err: os.ErrNotExist}
}

// ListDataFiles returns the files of dir matching the resolver patterns,
// sorted and without duplicates.
func (pr *PathResolver) ListDataFiles(dir string) []string {
	if stat, err := os.Stat(dir); err != nil || !stat.IsDir() {
		return nil
	}
	var files []string
	for _, pattern := range pr.patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return slices.Compact(files)
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}

// GetExecutableDir returns the directory containing the executable
func (pr *PathResolver) GetExecutableDir() string {
	return pr.executableDir
}

// DiagnosePathIssues reports every data directory candidate and what it
// holds.
func (pr *PathResolver) DiagnosePathIssues(userDataPath string) map[string]any {
	cwd, _ := os.Getwd()
	candidates := pr.dataDirCandidates(userDataPath)
	tests := make([]map[string]any, 0, len(candidates))
	for _, c := range candidates {
		tests = append(tests, map[string]any{
			"path":   c,
			"exists": IsDir(c),
			"files":  pr.ListDataFiles(c),
		})
	}
	return map[string]any{
		"executable_path":     pr.executablePath,
		"current_dir":         cwd,
		"config_dir":          pr.configDir,
		"os":                  runtime.GOOS,
		"data_dir_candidates": tests,
	}
}

func (pr *PathResolver) dataDirCandidates(userSpecifiedPath string) []string {
	var candidates []string
	if filepath.IsAbs(userSpecifiedPath) {
		candidates = append(candidates, userSpecifiedPath)
	} else {
		candidates = append(candidates, filepath.Join(pr.executableDir, userSpecifiedPath))
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, userSpecifiedPath))
		}
	}
	return append(candidates,
		filepath.Join(pr.executableDir, "data"),
		filepath.Join(filepath.Dir(pr.executableDir), "data"),
		filepath.Join(pr.configDir, "data"),
	)
}

func executablePath() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(execPath)
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return resolved, nil
}

// ExecutableDir returns the directory of the running binary, symlinks
// resolved. It is the last resort for the config directory.
func ExecutableDir() (string, error) {
	execPath, err := executablePath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// IsFile reports whether path is an existing regular file, such as a
// dictionary, its info sidecar or a config file.
func IsFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// DirStatus is the outcome of CheckDir.
type DirStatus struct {
	Path     string
	Writable bool
	Err      error
}

// CheckDir creates dir when missing and checks that files can be written
// into it.
func CheckDir(dir string) DirStatus {
	st := DirStatus{Path: dir}
	if err := EnsureDir(dir); err != nil {
		st.Err = err
		log.Debugf("Directory %s unusable: %v", dir, err)
		return st
	}
	f, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		st.Err = fmt.Errorf("write to %s: %w", dir, err)
		log.Debugf("Directory %s not writable: %v", dir, err)
		return st
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	st.Writable = true
	return st
}

// AbsPath returns path made absolute. Empty paths and paths that cannot be
// resolved come back unchanged.
func AbsPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// WriteTOMLFile encodes v as TOML into path. The file is written next to
// path and renamed over it, so readers never see a partial file.
func WriteTOMLFile(path string, v any) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if err := toml.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
