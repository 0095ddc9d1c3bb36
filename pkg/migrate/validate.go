package migrate

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	sqlFileRe     = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	createTableRe = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?([a-z_][a-z0-9_]*)`)
	dropTableRe   = regexp.MustCompile(`(?i)DROP\s+TABLE\s+(?:IF\s+EXISTS\s+)?([a-z_][a-z0-9_]*)`)
)

const (
	upMarker   = "-- +goose Up"
	downMarker = "-- +goose Down"
)

// File is a parsed migration file.
type File struct {
	Version int64
	Name    string
	Up      string
	Down    string
}

// ReadFiles lists the SQL migrations in fsys ordered by version.
func ReadFiles(fsys fs.FS) ([]File, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	seen := map[int64]string{}
	var files []File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %q: %w", name, err)
		}
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %d in %q and %q", version, prev, name)
		}
		seen[version] = name

		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %q: %w", name, err)
		}
		up, down, err := splitSections(name, string(b))
		if err != nil {
			return nil, err
		}
		files = append(files, File{Version: version, Name: name, Up: up, Down: down})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

func splitSections(name, txt string) (string, string, error) {
	upAt := strings.Index(txt, upMarker)
	if upAt < 0 {
		return "", "", fmt.Errorf("migration %q missing %q", name, upMarker)
	}
	downAt := strings.Index(txt, downMarker)
	if downAt < 0 {
		return "", "", fmt.Errorf("migration %q missing %q", name, downMarker)
	}
	if downAt < upAt {
		return "", "", fmt.Errorf("migration %q declares Down before Up", name)
	}
	return txt[upAt+len(upMarker) : downAt], txt[downAt+len(downMarker):], nil
}

// ValidateFS checks file names, section markers and that every table a
// migration creates is dropped again by its Down section.
func ValidateFS(fsys fs.FS) error {
	files, err := ReadFiles(fsys)
	if err != nil {
		return err
	}
	for _, f := range files {
		dropped := map[string]bool{}
		for _, name := range tableNames(dropTableRe, f.Down) {
			dropped[name] = true
		}
		for _, name := range tableNames(createTableRe, f.Up) {
			if !dropped[name] {
				return fmt.Errorf("migration %q creates table %s without dropping it in Down", f.Name, name)
			}
		}
	}
	return nil
}

// CheckCoverage reports the required tables that no migration in fsys creates.
func CheckCoverage(fsys fs.FS) error {
	files, err := ReadFiles(fsys)
	if err != nil {
		return err
	}
	created := map[string]bool{}
	for _, f := range files {
		for _, name := range tableNames(createTableRe, f.Up) {
			created[name] = true
		}
	}
	var missing []string
	for _, table := range RequiredTables {
		if !created[table] {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("migrations never create: %s", strings.Join(missing, ", "))
	}
	return nil
}

// LatestVersion returns the highest version in fsys, or zero when empty.
func LatestVersion(fsys fs.FS) (int64, error) {
	files, err := ReadFiles(fsys)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, nil
	}
	return files[len(files)-1].Version, nil
}

func tableNames(re *regexp.Regexp, sql string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(sql, -1) {
		out = append(out, strings.ToLower(m[1]))
	}
	return out
}
