package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BackupInfo describes one backup file.
type BackupInfo struct {
	Path     string
	Name     string
	Size     int64
	ModTime  time.Time
	Checksum string
}

// BackupName returns the default backup file name for now.
func BackupName(now time.Time) string {
	return "grimorio_" + now.Format("20060102_150405") + ".db"
}

// Backup writes a consistent copy of the database into dir using VACUUM INTO
// and checks that the copy opens and holds a spells table. An empty name
// uses BackupName.
func (s *Service) Backup(ctx context.Context, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if name == "" {
		name = BackupName(time.Now())
	}
	if !strings.HasSuffix(name, ".db") {
		name += ".db"
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("backup already exists: %s", path)
	}

	if _, err := s.db.conn.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}

	if _, err := VerifyBackup(ctx, path); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("backup verification failed: %w", err)
	}
	return path, nil
}

// VerifyBackup opens path read-only, runs an integrity check and returns the
// number of spells it holds.
func VerifyBackup(ctx context.Context, path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}

	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(path)+"?mode=ro")
	if err != nil {
		return 0, fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = db.Close() }()

	var check string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&check); err != nil {
		return 0, fmt.Errorf("failed to check backup: %w", err)
	}
	if check != "ok" {
		return 0, fmt.Errorf("integrity check: %s", check)
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM spells").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count spells in backup: %w", err)
	}
	return n, nil
}

// ListBackups returns the .db files in dir, newest first. A missing
// directory yields an empty list.
func ListBackups(dir string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".db" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		checksum, err := checksumFile(path)
		if err != nil {
			checksum = "unknown"
		}

		backups = append(backups, BackupInfo{
			Path:     path,
			Name:     entry.Name(),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
			Checksum: checksum,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].ModTime.Equal(backups[j].ModTime) {
			return backups[i].Name > backups[j].Name
		}
		return backups[i].ModTime.After(backups[j].ModTime)
	})
	return backups, nil
}

func checksumFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
